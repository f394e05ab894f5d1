package content

import (
	"context"
	"fmt"

	"github.com/sociumlabs/socium/internal/database/types"
	"go.uber.org/zap"
)

// PostService handles post lifecycle operations.
type PostService struct {
	posts  PostStore
	inv    FeedInvalidator
	logger *zap.Logger
}

// NewPostService creates a new post service.
func NewPostService(posts PostStore, inv FeedInvalidator, logger *zap.Logger) *PostService {
	return &PostService{
		posts:  posts,
		inv:    inv,
		logger: logger.Named("post_service"),
	}
}

// CreatePost stores a new post and evicts the author's followers' cached
// feeds so the post shows up on their next read.
func (s *PostService) CreatePost(
	ctx context.Context, userID int64, title, content, imageURL string,
) (*types.Post, error) {
	post := &types.Post{
		UserID:   userID,
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.inv.InvalidateFollowerFeeds(ctx, userID)

	s.logger.Debug("Created post",
		zap.Int64("postID", post.ID),
		zap.Int64("userID", userID))

	return post, nil
}

// GetPost fetches a post with its engagement counts.
func (s *PostService) GetPost(ctx context.Context, id int64) (*types.Post, error) {
	return s.posts.FindPostWithCounts(ctx, id)
}

// ListByAuthor returns an author's posts, newest first.
func (s *PostService) ListByAuthor(
	ctx context.Context, authorID int64, limit, offset int,
) ([]*types.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID, limit, offset)
}

// UpdatePost edits a post owned by userID.
func (s *PostService) UpdatePost(
	ctx context.Context, postID, userID int64, title, content, imageURL string,
) (*types.Post, error) {
	post, err := s.posts.FindPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, fmt.Errorf("%w: post %d", types.ErrNotPostOwner, postID)
	}

	post.Title = title
	post.Content = content
	post.ImageURL = imageURL

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	s.inv.InvalidateFollowerFeeds(ctx, userID)

	return post, nil
}

// DeletePost removes a post owned by userID and evicts the cached feeds
// it appeared in.
func (s *PostService) DeletePost(ctx context.Context, postID, userID int64) error {
	post, err := s.posts.FindPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return fmt.Errorf("%w: post %d", types.ErrNotPostOwner, postID)
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}

	s.inv.InvalidateFollowerFeeds(ctx, userID)

	s.logger.Debug("Deleted post",
		zap.Int64("postID", postID),
		zap.Int64("userID", userID))

	return nil
}
