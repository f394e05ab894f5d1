package types

import (
	"errors"
	"time"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// Follow represents a directed edge in the follow graph. A pair is unique;
// inserting an existing pair is rejected at the store level.
type Follow struct {
	FollowerID  int64     `bun:",pk"      json:"followerId"`
	FollowingID int64     `bun:",pk"      json:"followingId"`
	CreatedAt   time.Time `bun:",notnull" json:"createdAt"`
}
