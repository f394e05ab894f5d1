package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sociumlabs/socium/internal/database/dbretry"
	"github.com/sociumlabs/socium/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// UserModel handles database operations for user accounts.
type UserModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewUser creates a new user model.
func NewUser(db *bun.DB, logger *zap.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger.Named("db_user"),
	}
}

// CreateUser inserts a user and returns it with its generated ID.
func (r *UserModel) CreateUser(ctx context.Context, user *types.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(user).
			ModelTableExpr("users").
			Returning("id").
			Exec(ctx)

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindUser fetches a user by ID.
func (r *UserModel) FindUser(ctx context.Context, id int64) (*types.User, error) {
	user, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.User, error) {
		var user types.User

		err := r.db.NewSelect().
			Model(&user).
			ModelTableExpr("users AS u").
			Where("u.id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, err
		}

		return &user, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to find user %d: %w", id, err)
	}

	return user, nil
}

// UsersByID fetches a batch of users keyed by ID. Missing IDs are
// simply absent from the result.
func (r *UserModel) UsersByID(ctx context.Context, ids []int64) (map[int64]*types.User, error) {
	if len(ids) == 0 {
		return map[int64]*types.User{}, nil
	}

	users, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.User, error) {
		var users []*types.User

		err := r.db.NewSelect().
			Model(&users).
			ModelTableExpr("users AS u").
			Where("u.id IN (?)", bun.In(ids)).
			Scan(ctx)
		if err != nil {
			return nil, err
		}

		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by ID: %w", err)
	}

	result := make(map[int64]*types.User, len(users))
	for _, user := range users {
		result[user.ID] = user
	}

	return result, nil
}
