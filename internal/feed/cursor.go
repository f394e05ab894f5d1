package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sociumlabs/socium/internal/database/types"
)

// Boundary is the composite sort key of the last-seen post, used to bound the
// next page. Strictly decreasing across consecutive pages under the feed's
// ordering.
type Boundary struct {
	// Score is the anchor post's engagement score. Populated only for the
	// public feed; recomputed at resolve time, never stored in the cursor.
	Score int
	// CreatedAt is the anchor post's creation time.
	CreatedAt time.Time
	// ID is the anchor post's ID and the final tie-break.
	ID int64
}

// Codec resolves opaque cursors into boundary tuples. A cursor on the wire is
// the ID of the last post of the previous page; resolution re-fetches that
// post so the public feed's score reflects current counts.
type Codec struct {
	posts  PostStore
	ranker Ranker
}

// NewCodec creates a cursor codec over the given post store and ranker.
func NewCodec(posts PostStore, ranker Ranker) *Codec {
	return &Codec{
		posts:  posts,
		ranker: ranker,
	}
}

// Resolve turns a cursor into the boundary tuple for the given feed type.
// Returns ErrCursorNotFound when the anchor post has been deleted; the
// caller decides whether that means end-of-feed or a client error.
func (c *Codec) Resolve(ctx context.Context, feedType Type, cursor int64) (*Boundary, error) {
	post, err := c.posts.FindPostWithCounts(ctx, cursor)
	if err != nil {
		if errors.Is(err, types.ErrPostNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrCursorNotFound, cursor)
		}

		return nil, fmt.Errorf("failed to resolve cursor %d: %w", cursor, err)
	}

	boundary := &Boundary{
		CreatedAt: post.CreatedAt,
		ID:        post.ID,
	}

	if feedType == TypePublic {
		boundary.Score = c.ranker.Score(post.LikesCount, post.CommentsCount)
	}

	return boundary, nil
}
