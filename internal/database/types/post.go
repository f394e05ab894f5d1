package types

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("post belongs to another user")
)

// Post represents a piece of user content. Like and comment counts are
// derived columns populated by feed queries, never written directly.
type Post struct {
	ID        int64     `bun:",pk,autoincrement" json:"id"`
	UserID    int64     `bun:",notnull"          json:"userId"`
	Title     string    `bun:",notnull"          json:"title"`
	Content   string    `bun:",notnull"          json:"content"`
	ImageURL  string    `bun:",nullzero"         json:"imageUrl,omitempty"`
	CreatedAt time.Time `bun:",notnull"          json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull"          json:"updatedAt"`

	// Derived engagement columns, present only on rows scanned from feed
	// queries with count subselects.
	LikesCount    int `bun:"likes_count,scanonly"    json:"likesCount"`
	CommentsCount int `bun:"comments_count,scanonly" json:"commentsCount"`

	// Author loaded alongside feed rows.
	Author *User `bun:"rel:belongs-to,join:user_id=id" json:"author,omitempty"`
}
