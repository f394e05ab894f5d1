package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sociumlabs/socium/internal/database/dbretry"
	"github.com/sociumlabs/socium/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// CommentModel handles database operations for comments.
type CommentModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewComment creates a new comment model.
func NewComment(db *bun.DB, logger *zap.Logger) *CommentModel {
	return &CommentModel{
		db:     db,
		logger: logger.Named("db_comment"),
	}
}

// CreateComment inserts a comment and returns it with its generated ID.
func (r *CommentModel) CreateComment(ctx context.Context, comment *types.Comment) error {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(comment).
			ModelTableExpr("comments").
			Returning("id").
			Exec(ctx)

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// FindComment fetches a comment by ID.
func (r *CommentModel) FindComment(ctx context.Context, id int64) (*types.Comment, error) {
	comment, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.Comment, error) {
		var comment types.Comment

		err := r.db.NewSelect().
			Model(&comment).
			ModelTableExpr("comments AS comment").
			Where("comment.id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, err
		}

		return &comment, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrCommentNotFound
		}

		return nil, fmt.Errorf("failed to find comment %d: %w", id, err)
	}

	return comment, nil
}

// ListForPost returns a post's comments, newest first.
func (r *CommentModel) ListForPost(ctx context.Context, postID int64, limit, offset int) ([]*types.Comment, error) {
	comments, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Comment, error) {
		var comments []*types.Comment

		err := r.db.NewSelect().
			Model(&comments).
			ModelTableExpr("comments AS comment").
			Where("comment.post_id = ?", postID).
			OrderExpr("comment.created_at DESC").
			OrderExpr("comment.id DESC").
			Limit(limit).
			Offset(offset).
			Scan(ctx)
		if err != nil {
			return nil, err
		}

		return comments, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for post %d: %w", postID, err)
	}

	return comments, nil
}

// DeleteComment removes a comment owned by userID. Returns false without
// error when no matching comment existed.
func (r *CommentModel) DeleteComment(ctx context.Context, id, userID int64) (bool, error) {
	deleted, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		res, err := r.db.NewDelete().
			Model((*types.Comment)(nil)).
			ModelTableExpr("comments").
			Where("id = ?", id).
			Where("user_id = ?", userID). // Only allow deleting own comments
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
		return false, fmt.Errorf("failed to delete comment %d: %w", id, err)
	}

	return deleted, nil
}
