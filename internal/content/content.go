// Package content implements write-side operations for posts, likes,
// follows and comments, pairing each mutation with the feed cache
// evictions it requires.
package content

import (
	"context"

	"github.com/sociumlabs/socium/internal/database"
	"github.com/sociumlabs/socium/internal/database/types"
	"go.uber.org/zap"
)

// FeedInvalidator evicts cached feed pages after content mutations.
// Implemented by feed.Invalidator.
type FeedInvalidator interface {
	// InvalidateUserFeed drops a single user's cached personalized pages.
	InvalidateUserFeed(ctx context.Context, userID int64)
	// InvalidateFollowerFeeds drops cached pages for every follower of an
	// author, plus the public feed.
	InvalidateFollowerFeeds(ctx context.Context, authorID int64)
	// InvalidatePublicFeed drops the cached public feed pages.
	InvalidatePublicFeed(ctx context.Context)
}

// PostStore is the subset of the post model the content services use.
// Implemented by models.PostModel.
type PostStore interface {
	CreatePost(ctx context.Context, post *types.Post) error
	FindPost(ctx context.Context, id int64) (*types.Post, error)
	FindPostWithCounts(ctx context.Context, id int64) (*types.Post, error)
	ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]*types.Post, error)
	UpdatePost(ctx context.Context, post *types.Post) error
	DeletePost(ctx context.Context, id int64) error
}

// LikeStore is implemented by models.LikeModel.
type LikeStore interface {
	CreateLike(ctx context.Context, userID, postID int64) (bool, error)
	DeleteLike(ctx context.Context, userID, postID int64) (bool, error)
	ListUsersForPost(ctx context.Context, postID int64, limit, offset int) ([]*types.User, error)
}

// FollowStore is implemented by models.FollowModel.
type FollowStore interface {
	CreateFollow(ctx context.Context, followerID, followingID int64) (bool, error)
	DeleteFollow(ctx context.Context, followerID, followingID int64) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
	ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]*types.User, error)
	ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]*types.User, error)
}

// UserStore is implemented by models.UserModel.
type UserStore interface {
	FindUser(ctx context.Context, id int64) (*types.User, error)
}

// CommentStore is implemented by models.CommentModel.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *types.Comment) error
	ListForPost(ctx context.Context, postID int64, limit, offset int) ([]*types.Comment, error)
	DeleteComment(ctx context.Context, id, userID int64) (bool, error)
}

// Service bundles all content services.
type Service struct {
	posts    *PostService
	likes    *LikeService
	follows  *FollowService
	comments *CommentService
}

// NewService creates the content services on top of the repository.
func NewService(db database.Client, inv FeedInvalidator, logger *zap.Logger) *Service {
	repo := db.Model()

	return &Service{
		posts:    NewPostService(repo.Post(), inv, logger),
		likes:    NewLikeService(repo.Post(), repo.Like(), inv, logger),
		follows:  NewFollowService(repo.User(), repo.Follow(), inv, logger),
		comments: NewCommentService(repo.Post(), repo.Comment(), inv, logger),
	}
}

// Post returns the post service.
func (s *Service) Post() *PostService {
	return s.posts
}

// Like returns the like service.
func (s *Service) Like() *LikeService {
	return s.likes
}

// Follow returns the follow service.
func (s *Service) Follow() *FollowService {
	return s.follows
}

// Comment returns the comment service.
func (s *Service) Comment() *CommentService {
	return s.comments
}
