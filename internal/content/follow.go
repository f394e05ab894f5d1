package content

import (
	"context"
	"fmt"

	"github.com/sociumlabs/socium/internal/database/types"
	"go.uber.org/zap"
)

// FollowService handles follow graph mutations.
type FollowService struct {
	users   UserStore
	follows FollowStore
	inv     FeedInvalidator
	logger  *zap.Logger
}

// NewFollowService creates a new follow service.
func NewFollowService(users UserStore, follows FollowStore, inv FeedInvalidator, logger *zap.Logger) *FollowService {
	return &FollowService{
		users:   users,
		follows: follows,
		inv:     inv,
		logger:  logger.Named("follow_service"),
	}
}

// Follow creates a follow edge and evicts the follower's cached feed so
// the new author's posts appear on the next read. Following yourself or
// a user you already follow is rejected.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return types.ErrSelfFollow
	}

	if _, err := s.users.FindUser(ctx, followingID); err != nil {
		return err
	}

	created, err := s.follows.CreateFollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}

	if !created {
		return fmt.Errorf("%w: user %d", types.ErrAlreadyFollowing, followingID)
	}

	s.inv.InvalidateUserFeed(ctx, followerID)

	return nil
}

// Unfollow removes a follow edge and evicts the follower's cached feed.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	deleted, err := s.follows.DeleteFollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}

	if !deleted {
		return fmt.Errorf("%w: user %d", types.ErrNotFollowing, followingID)
	}

	s.inv.InvalidateUserFeed(ctx, followerID)

	return nil
}

// IsFollowing reports whether a follow edge exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, followingID)
}

// Following returns the users a user follows.
func (s *FollowService) Following(ctx context.Context, userID int64, limit, offset int) ([]*types.User, error) {
	return s.follows.ListFollowing(ctx, userID, limit, offset)
}

// Followers returns a user's followers.
func (s *FollowService) Followers(ctx context.Context, userID int64, limit, offset int) ([]*types.User, error) {
	return s.follows.ListFollowers(ctx, userID, limit, offset)
}
