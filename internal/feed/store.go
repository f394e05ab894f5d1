package feed

import (
	"context"

	"github.com/sociumlabs/socium/internal/database/types"
)

// Query describes one cursor-bounded feed fetch against the post store.
type Query struct {
	// Type selects the ordering.
	Type Type
	// AuthorIDs filters posts to these authors. Required for personalized
	// queries, ignored for public ones.
	AuthorIDs []int64
	// Boundary excludes posts at or after the cursor position. Nil for the
	// first page.
	Boundary *Boundary
	// Limit is the number of rows to fetch. Callers pass page size + 1 to
	// detect continuation without a count query.
	Limit int
}

// PostStore is the post access surface the feed subsystem consumes.
type PostStore interface {
	// FindPostWithCounts fetches a post with its like and comment counts.
	// Returns types.ErrPostNotFound when the post does not exist.
	FindPostWithCounts(ctx context.Context, id int64) (*types.Post, error)
	// FeedPage executes a feed query, returning at most q.Limit posts with
	// counts populated, in the query's total order.
	FeedPage(ctx context.Context, q Query) ([]*types.Post, error)
	// CountByAuthors counts posts authored by any of the given users.
	CountByAuthors(ctx context.Context, authorIDs []int64) (int, error)
}

// FollowGraph is the follow-edge access surface the feed subsystem consumes.
type FollowGraph interface {
	// FollowingIDs returns the IDs the user follows.
	FollowingIDs(ctx context.Context, userID int64) ([]int64, error)
	// FollowerIDs returns the IDs following the user.
	FollowerIDs(ctx context.Context, userID int64) ([]int64, error)
	// FollowingCount returns how many users the user follows.
	FollowingCount(ctx context.Context, userID int64) (int, error)
	// FollowersCount returns how many users follow the user.
	FollowersCount(ctx context.Context, userID int64) (int, error)
}

// LikeStore is the like access surface the feed subsystem consumes.
type LikeStore interface {
	// FilterLiked returns the subset of postIDs the user has liked.
	FilterLiked(ctx context.Context, userID int64, postIDs []int64) (map[int64]struct{}, error)
}

// UserStore batch-fetches authors for feed annotation. Explicit fetch, no
// implicit relation loading.
type UserStore interface {
	UsersByID(ctx context.Context, ids []int64) (map[int64]*types.User, error)
}
