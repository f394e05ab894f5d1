package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sociumlabs/socium/internal/database/dbretry"
	"github.com/sociumlabs/socium/internal/database/types"
	"github.com/sociumlabs/socium/internal/feed"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// PostModel handles database operations for posts, including the feed
// queries over them.
type PostModel struct {
	db     *bun.DB
	ranker feed.Ranker
	logger *zap.Logger
}

// NewPost creates a new post model. The ranker supplies the engagement score
// expression used by public feed ordering and boundaries.
func NewPost(db *bun.DB, ranker feed.Ranker, logger *zap.Logger) *PostModel {
	return &PostModel{
		db:     db,
		ranker: ranker,
		logger: logger.Named("db_post"),
	}
}

// withCounts selects posts with their like and comment counts as derived
// columns. Feed ordering and boundary predicates run over this subquery so
// the counts are plain columns at the outer level.
func (r *PostModel) withCounts() *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("posts AS p").
		ColumnExpr("p.*").
		ColumnExpr("(SELECT count(*) FROM likes WHERE likes.post_id = p.id) AS likes_count").
		ColumnExpr("(SELECT count(*) FROM comments WHERE comments.post_id = p.id) AS comments_count")
}

// BuildFeedQuery constructs the ordered, cursor-bounded select for a feed
// query without executing it.
func (r *PostModel) BuildFeedQuery(q feed.Query) *bun.SelectQuery {
	query := r.db.NewSelect().
		ColumnExpr("post.*").
		TableExpr("(?) AS post", r.withCounts())

	switch q.Type {
	case feed.TypePersonalized:
		query = query.
			Where("post.user_id IN (?)", bun.In(q.AuthorIDs)).
			OrderExpr("post.created_at DESC").
			OrderExpr("post.id DESC")

		if b := q.Boundary; b != nil {
			query = query.Where(
				"(post.created_at < ? OR (post.created_at = ? AND post.id < ?))",
				b.CreatedAt, b.CreatedAt, b.ID)
		}
	case feed.TypePublic:
		score := r.ranker.SQLExpr("post")

		query = query.
			OrderExpr(score + " DESC").
			OrderExpr("post.created_at DESC").
			OrderExpr("post.id DESC")

		if b := q.Boundary; b != nil {
			query = query.Where(
				"("+score+" < ? OR ("+score+" = ? AND post.created_at < ?) OR ("+
					score+" = ? AND post.created_at = ? AND post.id < ?))",
				b.Score, b.Score, b.CreatedAt, b.Score, b.CreatedAt, b.ID)
		}
	}

	return query.Limit(q.Limit)
}

// FeedPage executes a feed query, returning at most q.Limit posts in the
// feed's total order with counts populated.
func (r *PostModel) FeedPage(ctx context.Context, q feed.Query) ([]*types.Post, error) {
	posts, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Post, error) {
		var posts []*types.Post
		if err := r.BuildFeedQuery(q).Scan(ctx, &posts); err != nil {
			return nil, err
		}

		return posts, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query feed page: %w", err)
	}

	return posts, nil
}

// FindPostWithCounts fetches a single post with its like and comment counts.
func (r *PostModel) FindPostWithCounts(ctx context.Context, id int64) (*types.Post, error) {
	post, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.Post, error) {
		var post types.Post

		err := r.db.NewSelect().
			ColumnExpr("post.*").
			TableExpr("(?) AS post", r.withCounts()).
			Where("post.id = ?", id).
			Scan(ctx, &post)
		if err != nil {
			return nil, err
		}

		return &post, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrPostNotFound
		}

		return nil, fmt.Errorf("failed to find post %d: %w", id, err)
	}

	return post, nil
}

// FindPost fetches a post without derived counts.
func (r *PostModel) FindPost(ctx context.Context, id int64) (*types.Post, error) {
	post, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.Post, error) {
		var post types.Post

		err := r.db.NewSelect().
			Model(&post).
			ModelTableExpr("posts AS post").
			Where("post.id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, err
		}

		return &post, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrPostNotFound
		}

		return nil, fmt.Errorf("failed to find post %d: %w", id, err)
	}

	return post, nil
}

// CountByAuthors counts posts authored by any of the given users.
func (r *PostModel) CountByAuthors(ctx context.Context, authorIDs []int64) (int, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}

	count, err := dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		return r.db.NewSelect().
			Model((*types.Post)(nil)).
			ModelTableExpr("posts").
			Where("user_id IN (?)", bun.In(authorIDs)).
			Count(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count posts by authors: %w", err)
	}

	return count, nil
}

// ListByAuthor returns a user's posts with counts, newest first.
func (r *PostModel) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]*types.Post, error) {
	posts, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Post, error) {
		var posts []*types.Post

		err := r.db.NewSelect().
			ColumnExpr("post.*").
			TableExpr("(?) AS post", r.withCounts()).
			Where("post.user_id = ?", authorID).
			OrderExpr("post.created_at DESC").
			OrderExpr("post.id DESC").
			Limit(limit).
			Offset(offset).
			Scan(ctx, &posts)
		if err != nil {
			return nil, err
		}

		return posts, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for author %d: %w", authorID, err)
	}

	return posts, nil
}

// CreatePost inserts a new post and returns it with its generated ID.
func (r *PostModel) CreatePost(ctx context.Context, post *types.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(post).
			ModelTableExpr("posts").
			Returning("id").
			Exec(ctx)

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// UpdatePost updates a post's content fields.
func (r *PostModel) UpdatePost(ctx context.Context, post *types.Post) error {
	post.UpdatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model(post).
			ModelTableExpr("posts").
			Column("title", "content", "image_url", "updated_at").
			WherePK().
			Exec(ctx)

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}

	return nil
}

// DeletePost removes a post together with its likes and comments in one
// transaction, since the schema carries no cascading constraints.
func (r *PostModel) DeletePost(ctx context.Context, id int64) error {
	err := dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*types.Like)(nil)).
			ModelTableExpr("likes").
			Where("post_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*types.Comment)(nil)).
			ModelTableExpr("comments").
			Where("post_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*types.Post)(nil)).
			ModelTableExpr("posts").
			Where("id = ?", id).
			Exec(ctx)

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}

	return nil
}
