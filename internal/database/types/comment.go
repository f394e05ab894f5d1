package types

import (
	"errors"
	"time"
)

var ErrCommentNotFound = errors.New("comment not found")

// Comment represents a comment on a post.
type Comment struct {
	ID        int64     `bun:",pk,autoincrement" json:"id"`
	PostID    int64     `bun:",notnull"          json:"postId"`
	UserID    int64     `bun:",notnull"          json:"userId"`
	Body      string    `bun:",notnull"          json:"body"`
	CreatedAt time.Time `bun:",notnull"          json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull"          json:"updatedAt"`
}
