package database

import (
	"github.com/sociumlabs/socium/internal/database/models"
	"github.com/sociumlabs/socium/internal/feed"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all model operations.
type Repository struct {
	users    *models.UserModel
	posts    *models.PostModel
	follows  *models.FollowModel
	likes    *models.LikeModel
	comments *models.CommentModel
}

// NewRepository creates a repository with all models. The ranker is shared
// with the post model so engagement scores rendered in SQL and computed in
// Go always use the same weights.
func NewRepository(db *bun.DB, ranker feed.Ranker, logger *zap.Logger) *Repository {
	return &Repository{
		users:    models.NewUser(db, logger),
		posts:    models.NewPost(db, ranker, logger),
		follows:  models.NewFollow(db, logger),
		likes:    models.NewLike(db, logger),
		comments: models.NewComment(db, logger),
	}
}

// User returns the user model.
func (r *Repository) User() *models.UserModel {
	return r.users
}

// Post returns the post model.
func (r *Repository) Post() *models.PostModel {
	return r.posts
}

// Follow returns the follow model.
func (r *Repository) Follow() *models.FollowModel {
	return r.follows
}

// Like returns the like model.
func (r *Repository) Like() *models.LikeModel {
	return r.likes
}

// Comment returns the comment model.
func (r *Repository) Comment() *models.CommentModel {
	return r.comments
}
