package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db sqlx.ExtContext
}

// NewUserRepository creates a new user repository
func NewUserRepository(db sqlx.ExtContext) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

const userColumns = `id, name, email, avatar, created_at, updated_at`

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (id, name, email, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Avatar, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return wrapErr("create user", err)
	}

	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user entities.User
	err := sqlx.GetContext(ctx, r.db, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrUserNotFound(id)
		}
		return nil, wrapErr("get user by id", err)
	}

	return &user, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entities.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, avatar = $4, updated_at = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Avatar, user.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update user", err)
	}

	return requireAffected("update user", result, entities.ErrUserNotFound(user.ID))
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete user", err)
	}

	return requireAffected("delete user", result, entities.ErrUserNotFound(id))
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name ASC, id ASC`

	users := []*entities.User{}
	if err := sqlx.SelectContext(ctx, r.db, &users, query); err != nil {
		return nil, wrapErr("list users", err)
	}

	return users, nil
}
