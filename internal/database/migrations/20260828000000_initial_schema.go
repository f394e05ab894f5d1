package migrations

import (
	"context"
	"fmt"

	"github.com/sociumlabs/socium/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []struct {
			model any
			name  string
		}{
			{(*types.User)(nil), "users"},
			{(*types.Post)(nil), "posts"},
			{(*types.Follow)(nil), "follows"},
			{(*types.Like)(nil), "likes"},
			{(*types.Comment)(nil), "comments"},
		}

		for _, table := range tables {
			_, err := db.NewCreateTable().
				Model(table.model).
				ModelTableExpr(table.name).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %s: %w", table.name, err)
			}
		}

		// Feed queries order by (created_at, id) and filter by author, so both
		// sides of the personalized ordering need covering indexes. The likes
		// and comments lookups back the count subselects.
		_, err := db.NewRaw(`
			CREATE INDEX IF NOT EXISTS idx_posts_created_id
			ON posts (created_at DESC, id DESC);

			CREATE INDEX IF NOT EXISTS idx_posts_author_created
			ON posts (user_id, created_at DESC, id DESC);

			CREATE INDEX IF NOT EXISTS idx_follows_follower
			ON follows (follower_id, following_id);

			CREATE INDEX IF NOT EXISTS idx_follows_following
			ON follows (following_id, follower_id);

			CREATE INDEX IF NOT EXISTS idx_likes_post
			ON likes (post_id);

			CREATE INDEX IF NOT EXISTS idx_comments_post
			ON comments (post_id);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create feed indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, name := range []string{"comments", "likes", "follows", "posts", "users"} {
			if _, err := db.NewRaw(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)).Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", name, err)
			}
		}

		return nil
	})
}
