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

// LikeModel handles database operations for likes. Both directions are
// idempotent at the store level: duplicate likes insert nothing and unliking
// a never-liked post deletes nothing.
type LikeModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewLike creates a new like model.
func NewLike(db *bun.DB, logger *zap.Logger) *LikeModel {
	return &LikeModel{
		db:     db,
		logger: logger.Named("db_like"),
	}
}

// CreateLike records a like. Returns false without error when the user had
// already liked the post.
func (r *LikeModel) CreateLike(ctx context.Context, userID, postID int64) (bool, error) {
	created, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		like := &types.Like{
			UserID:    userID,
			PostID:    postID,
			CreatedAt: time.Now(),
		}

		res, err := r.db.NewInsert().
			Model(like).
			ModelTableExpr("likes").
			On("CONFLICT (user_id, post_id) DO NOTHING").
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
		return false, fmt.Errorf("failed to like post %d for user %d: %w", postID, userID, err)
	}

	return created, nil
}

// DeleteLike removes a like. Returns false without error when no like
// existed.
func (r *LikeModel) DeleteLike(ctx context.Context, userID, postID int64) (bool, error) {
	deleted, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		res, err := r.db.NewDelete().
			Model((*types.Like)(nil)).
			ModelTableExpr("likes").
			Where("user_id = ?", userID).
			Where("post_id = ?", postID).
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
		return false, fmt.Errorf("failed to unlike post %d for user %d: %w", postID, userID, err)
	}

	return deleted, nil
}

// IsLiked reports whether the user has liked the post.
func (r *LikeModel) IsLiked(ctx context.Context, userID, postID int64) (bool, error) {
	liked, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		return r.db.NewSelect().
			Model((*types.Like)(nil)).
			ModelTableExpr("likes").
			Where("user_id = ?", userID).
			Where("post_id = ?", postID).
			Exists(ctx)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check like for post %d by user %d: %w", postID, userID, err)
	}

	return liked, nil
}

// FilterLiked returns the subset of postIDs that the user has liked, as a
// set. One batched query regardless of page size.
func (r *LikeModel) FilterLiked(ctx context.Context, userID int64, postIDs []int64) (map[int64]struct{}, error) {
	if len(postIDs) == 0 {
		return map[int64]struct{}{}, nil
	}

	liked, err := dbretry.Operation(ctx, func(ctx context.Context) (map[int64]struct{}, error) {
		var ids []int64

		err := r.db.NewSelect().
			Model((*types.Like)(nil)).
			ModelTableExpr("likes").
			Column("post_id").
			Where("user_id = ?", userID).
			Where("post_id IN (?)", bun.In(postIDs)).
			Scan(ctx, &ids)
		if err != nil {
			return nil, err
		}

		likedSet := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			likedSet[id] = struct{}{}
		}

		return likedSet, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter liked posts for user %d: %w", userID, err)
	}

	return liked, nil
}

// CountForPost returns the number of likes on a post.
func (r *LikeModel) CountForPost(ctx context.Context, postID int64) (int, error) {
	count, err := dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		return r.db.NewSelect().
			Model((*types.Like)(nil)).
			ModelTableExpr("likes").
			Where("post_id = ?", postID).
			Count(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count likes for post %d: %w", postID, err)
	}

	return count, nil
}

// ListUsersForPost returns the users who liked a post, newest like first.
func (r *LikeModel) ListUsersForPost(ctx context.Context, postID int64, limit, offset int) ([]*types.User, error) {
	users, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.User, error) {
		var users []*types.User

		err := r.db.NewSelect().
			ColumnExpr("u.*").
			TableExpr("likes AS l").
			Join("JOIN users AS u ON u.id = l.user_id").
			Where("l.post_id = ?", postID).
			OrderExpr("l.created_at DESC").
			Limit(limit).
			Offset(offset).
			Scan(ctx, &users)
		if err != nil {
			return nil, err
		}

		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list likers for post %d: %w", postID, err)
	}

	return users, nil
}
