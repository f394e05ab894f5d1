package content

import (
	"context"

	"github.com/sociumlabs/socium/internal/database/types"
	"go.uber.org/zap"
)

// LikeService handles like and unlike operations.
type LikeService struct {
	posts  PostStore
	likes  LikeStore
	inv    FeedInvalidator
	logger *zap.Logger
}

// NewLikeService creates a new like service.
func NewLikeService(posts PostStore, likes LikeStore, inv FeedInvalidator, logger *zap.Logger) *LikeService {
	return &LikeService{
		posts:  posts,
		likes:  likes,
		inv:    inv,
		logger: logger.Named("like_service"),
	}
}

// Like records a like for a post. Returns false when the user had
// already liked the post; repeat likes are not an error and leave the
// cache untouched.
func (s *LikeService) Like(ctx context.Context, userID, postID int64) (bool, error) {
	if _, err := s.posts.FindPost(ctx, postID); err != nil {
		return false, err
	}

	created, err := s.likes.CreateLike(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if created {
		// Engagement changed, so public feed ordering may have too.
		s.inv.InvalidatePublicFeed(ctx)
	}

	return created, nil
}

// Unlike removes a like. Returns false when no like existed; that is
// not an error.
func (s *LikeService) Unlike(ctx context.Context, userID, postID int64) (bool, error) {
	deleted, err := s.likes.DeleteLike(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if deleted {
		s.inv.InvalidatePublicFeed(ctx)
	}

	return deleted, nil
}

// LikedBy returns the users who liked a post.
func (s *LikeService) LikedBy(ctx context.Context, postID int64, limit, offset int) ([]*types.User, error) {
	if _, err := s.posts.FindPost(ctx, postID); err != nil {
		return nil, err
	}

	return s.likes.ListUsersForPost(ctx, postID, limit, offset)
}
