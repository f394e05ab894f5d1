package feed

import (
	"errors"

	"github.com/sociumlabs/socium/internal/database/types"
)

// ErrCursorNotFound indicates the post a cursor points at has been deleted.
var ErrCursorNotFound = errors.New("cursor post no longer exists")

// Type distinguishes the two feed orderings.
type Type string

const (
	// TypePersonalized orders posts from followed authors by recency.
	TypePersonalized Type = "personalized"
	// TypePublic orders all posts by engagement score.
	TypePublic Type = "public"
)

// Item is a feed entry: a post plus per-viewer annotation.
type Item struct {
	types.Post

	// EngagementScore as computed by the ranker at build time.
	EngagementScore int `json:"engagementScore"`
	// IsLiked is set only for authenticated requests.
	IsLiked *bool `json:"isLiked,omitempty"`
}

// Page is one cursor-bounded slice of a feed.
type Page struct {
	Posts      []*Item `json:"posts"`
	NextCursor *int64  `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

// EmptyPage returns a terminal page with no posts and no continuation.
func EmptyPage() *Page {
	return &Page{Posts: []*Item{}, NextCursor: nil, HasMore: false}
}

// Stats summarizes a user's feed inputs without fetching a page.
type Stats struct {
	FollowingCount     int `json:"followingCount"`
	FollowersCount     int `json:"followersCount"`
	FeedPostsAvailable int `json:"feedPostsAvailable"`
}
