package types

import "time"

// Like represents a user liking a post. The (user, post) pair is unique so
// repeated likes are no-ops rather than duplicate rows.
type Like struct {
	UserID    int64     `bun:",pk"      json:"userId"`
	PostID    int64     `bun:",pk"      json:"postId"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}
