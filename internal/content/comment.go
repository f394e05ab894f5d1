package content

import (
	"context"

	"github.com/sociumlabs/socium/internal/database/types"
	"go.uber.org/zap"
)

// CommentService handles comment operations.
type CommentService struct {
	posts    PostStore
	comments CommentStore
	inv      FeedInvalidator
	logger   *zap.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(posts PostStore, comments CommentStore, inv FeedInvalidator, logger *zap.Logger) *CommentService {
	return &CommentService{
		posts:    posts,
		comments: comments,
		inv:      inv,
		logger:   logger.Named("comment_service"),
	}
}

// AddComment attaches a comment to a post and evicts the public feed,
// since comments feed into engagement scores.
func (s *CommentService) AddComment(ctx context.Context, userID, postID int64, body string) (*types.Comment, error) {
	if _, err := s.posts.FindPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &types.Comment{
		PostID: postID,
		UserID: userID,
		Body:   body,
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.inv.InvalidatePublicFeed(ctx)

	return comment, nil
}

// ListComments returns a post's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, postID int64, limit, offset int) ([]*types.Comment, error) {
	if _, err := s.posts.FindPost(ctx, postID); err != nil {
		return nil, err
	}

	return s.comments.ListForPost(ctx, postID, limit, offset)
}

// DeleteComment removes a comment owned by userID.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID int64) error {
	deleted, err := s.comments.DeleteComment(ctx, commentID, userID)
	if err != nil {
		return err
	}

	if !deleted {
		return types.ErrCommentNotFound
	}

	s.inv.InvalidatePublicFeed(ctx)

	return nil
}
