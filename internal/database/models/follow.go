package models

import (
	"context"
	"fmt"
	"time"

	"github.com/sociumlabs/socium/internal/database/dbretry"
	"github.com/sociumlabs/socium/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// FollowModel handles database operations for the follow graph.
type FollowModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewFollow creates a new follow model.
func NewFollow(db *bun.DB, logger *zap.Logger) *FollowModel {
	return &FollowModel{
		db:     db,
		logger: logger.Named("db_follow"),
	}
}

// FollowingIDs returns the IDs of users that userID follows.
func (r *FollowModel) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := dbretry.Operation(ctx, func(ctx context.Context) ([]int64, error) {
		var ids []int64

		err := r.db.NewSelect().
			Model((*types.Follow)(nil)).
			ModelTableExpr("follows").
			Column("following_id").
			Where("follower_id = ?", userID).
			Scan(ctx, &ids)
		if err != nil {
			return nil, err
		}

		return ids, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get following IDs for user %d: %w", userID, err)
	}

	return ids, nil
}

// FollowerIDs returns the IDs of users following userID.
func (r *FollowModel) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := dbretry.Operation(ctx, func(ctx context.Context) ([]int64, error) {
		var ids []int64

		err := r.db.NewSelect().
			Model((*types.Follow)(nil)).
			ModelTableExpr("follows").
			Column("follower_id").
			Where("following_id = ?", userID).
			Scan(ctx, &ids)
		if err != nil {
			return nil, err
		}

		return ids, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get follower IDs for user %d: %w", userID, err)
	}

	return ids, nil
}

// FollowingCount returns how many users userID follows.
func (r *FollowModel) FollowingCount(ctx context.Context, userID int64) (int, error) {
	count, err := dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		return r.db.NewSelect().
			Model((*types.Follow)(nil)).
			ModelTableExpr("follows").
			Where("follower_id = ?", userID).
			Count(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count following for user %d: %w", userID, err)
	}

	return count, nil
}

// FollowersCount returns how many users follow userID.
func (r *FollowModel) FollowersCount(ctx context.Context, userID int64) (int, error) {
	count, err := dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		return r.db.NewSelect().
			Model((*types.Follow)(nil)).
			ModelTableExpr("follows").
			Where("following_id = ?", userID).
			Count(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count followers for user %d: %w", userID, err)
	}

	return count, nil
}

// CreateFollow inserts a follow edge. Returns false without error when the
// edge already exists.
func (r *FollowModel) CreateFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	created, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		edge := &types.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   time.Now(),
		}

		res, err := r.db.NewInsert().
			Model(edge).
			ModelTableExpr("follows").
			On("CONFLICT (follower_id, following_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return false, err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to create follow edge %d -> %d: %w", followerID, followingID, err)
	}

	return created, nil
}

// DeleteFollow removes a follow edge. Returns false without error when the
// edge did not exist.
func (r *FollowModel) DeleteFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	deleted, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		res, err := r.db.NewDelete().
			Model((*types.Follow)(nil)).
			ModelTableExpr("follows").
			Where("follower_id = ?", followerID).
			Where("following_id = ?", followingID).
			Exec(ctx)
		if err != nil {
			return false, err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete follow edge %d -> %d: %w", followerID, followingID, err)
	}

	return deleted, nil
}

// IsFollowing reports whether followerID follows followingID.
func (r *FollowModel) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	exists, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		return r.db.NewSelect().
			Model((*types.Follow)(nil)).
			ModelTableExpr("follows").
			Where("follower_id = ?", followerID).
			Where("following_id = ?", followingID).
			Exists(ctx)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge %d -> %d: %w", followerID, followingID, err)
	}

	return exists, nil
}

// ListFollowing returns the users that userID follows, newest edge first.
func (r *FollowModel) ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]*types.User, error) {
	users, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.User, error) {
		var users []*types.User

		err := r.db.NewSelect().
			ColumnExpr("u.*").
			TableExpr("follows AS f").
			Join("JOIN users AS u ON u.id = f.following_id").
			Where("f.follower_id = ?", userID).
			OrderExpr("f.created_at DESC").
			Limit(limit).
			Offset(offset).
			Scan(ctx, &users)
		if err != nil {
			return nil, err
		}

		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list following for user %d: %w", userID, err)
	}

	return users, nil
}

// ListFollowers returns the users following userID, newest edge first.
func (r *FollowModel) ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]*types.User, error) {
	users, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.User, error) {
		var users []*types.User

		err := r.db.NewSelect().
			ColumnExpr("u.*").
			TableExpr("follows AS f").
			Join("JOIN users AS u ON u.id = f.follower_id").
			Where("f.following_id = ?", userID).
			OrderExpr("f.created_at DESC").
			Limit(limit).
			Offset(offset).
			Scan(ctx, &users)
		if err != nil {
			return nil, err
		}

		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list followers for user %d: %w", userID, err)
	}

	return users, nil
}
