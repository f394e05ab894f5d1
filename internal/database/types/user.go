package types

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User represents a platform account. Authentication state is owned by the
// upstream gateway; only identity fields live here.
type User struct {
	ID        int64     `bun:",pk,autoincrement" json:"id"`
	Name      string    `bun:",notnull"          json:"name"`
	Email     string    `bun:",notnull,unique"   json:"email"`
	CreatedAt time.Time `bun:",notnull"          json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull"          json:"updatedAt"`
}
