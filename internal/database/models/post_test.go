package models_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/sociumlabs/socium/internal/database/models"
	"github.com/sociumlabs/socium/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// testDB returns a bun.DB that renders SQL without connecting; queries are
// built and stringified, never executed.
func testDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr("localhost:5432"),
		pgdriver.WithDatabase("socium_test"),
		pgdriver.WithInsecure(true),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { db.Close() })

	return db
}

func newPostModel(t *testing.T) *models.PostModel {
	t.Helper()
	return models.NewPost(testDB(t), feed.NewRanker(2, 3), zap.NewNop())
}

func TestBuildFeedQueryPersonalized(t *testing.T) {
	t.Parallel()
	model := newPostModel(t)

	query := model.BuildFeedQuery(feed.Query{
		Type:      feed.TypePersonalized,
		AuthorIDs: []int64{2, 3},
		Limit:     16,
	}).String()

	// Counts are derived columns of the inner select
	assert.Contains(t, query, "AS likes_count")
	assert.Contains(t, query, "AS comments_count")

	// Authors filter and recency ordering
	assert.Contains(t, query, "post.user_id IN (2, 3)")
	assert.Contains(t, query, "ORDER BY post.created_at DESC, post.id DESC")
	assert.Contains(t, query, "LIMIT 16")

	// First page carries no boundary predicate
	assert.NotContains(t, query, "post.created_at <")
}

func TestBuildFeedQueryPersonalizedBoundary(t *testing.T) {
	t.Parallel()
	model := newPostModel(t)

	query := model.BuildFeedQuery(feed.Query{
		Type:      feed.TypePersonalized,
		AuthorIDs: []int64{2},
		Boundary: &feed.Boundary{
			CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			ID:        42,
		},
		Limit: 16,
	}).String()

	// Ties on created_at break on ID so rows are never skipped or repeated
	assert.Contains(t, query, "post.created_at <")
	assert.Contains(t, query, "post.id < 42")
}

func TestBuildFeedQueryPublic(t *testing.T) {
	t.Parallel()
	model := newPostModel(t)

	query := model.BuildFeedQuery(feed.Query{
		Type:  feed.TypePublic,
		Limit: 16,
	}).String()

	// Engagement score leads the ordering, recency and ID break ties
	assert.Contains(t, query,
		"ORDER BY (post.likes_count * 2 + post.comments_count * 3) DESC, post.created_at DESC, post.id DESC")
	assert.NotContains(t, query, "post.user_id IN")
}

func TestBuildFeedQueryPublicBoundary(t *testing.T) {
	t.Parallel()
	model := newPostModel(t)

	query := model.BuildFeedQuery(feed.Query{
		Type: feed.TypePublic,
		Boundary: &feed.Boundary{
			Score:     14,
			CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			ID:        42,
		},
		Limit: 16,
	}).String()

	// Three-branch boundary over (score, created_at, id)
	assert.Contains(t, query, "(post.likes_count * 2 + post.comments_count * 3) < 14")
	assert.Contains(t, query, "(post.likes_count * 2 + post.comments_count * 3) = 14")
	assert.Contains(t, query, "post.id < 42")
}
