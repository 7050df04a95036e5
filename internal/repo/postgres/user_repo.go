package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourpaws/backend/internal/services/auth"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	if r.pool == nil {
		return auth.User{}, fmt.Errorf("postgres pool is nil")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return auth.User{}, auth.ErrUserNotFound
	}

	var user auth.User
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, display_name, is_owner, created_at, updated_at
FROM users
WHERE lower(email) = lower($1)
`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.IsOwner, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepo) Insert(ctx context.Context, user auth.User) (auth.User, error) {
	if r.pool == nil {
		return auth.User{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, display_name, is_owner)
VALUES ($1, $2, $3, $4)
RETURNING id, email, password_hash, display_name, is_owner, created_at, updated_at
`, user.Email, user.PasswordHash, user.DisplayName, user.IsOwner).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.IsOwner, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return auth.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}
