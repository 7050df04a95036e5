package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourpaws/backend/internal/services/auth"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Insert(ctx context.Context, session auth.Session) (auth.Session, error) {
	if r.pool == nil {
		return auth.Session{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO sessions (user_id, token_hash, expires_at)
VALUES ($1, $2, $3)
RETURNING id, user_id, token_hash, created_at, expires_at
`, session.UserID, session.TokenHash, session.ExpiresAt).
		Scan(&session.ID, &session.UserID, &session.TokenHash, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		return auth.Session{}, fmt.Errorf("insert session: %w", err)
	}

	return session, nil
}

// FindActive loads a non-expired session row together with its user. The
// cookie alone is never trusted: a missing row means the session was revoked.
func (r *SessionRepo) FindActive(ctx context.Context, tokenHash string, userID uuid.UUID, now time.Time) (auth.Session, auth.User, error) {
	if r.pool == nil {
		return auth.Session{}, auth.User{}, fmt.Errorf("postgres pool is nil")
	}

	var (
		session auth.Session
		user    auth.User
	)
	err := r.pool.QueryRow(ctx, `
SELECT s.id, s.user_id, s.token_hash, s.created_at, s.expires_at,
       u.id, u.email, u.password_hash, u.display_name, u.is_owner, u.created_at, u.updated_at
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.token_hash = $1 AND s.user_id = $2 AND s.expires_at > $3
`, tokenHash, userID, now).Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.CreatedAt, &session.ExpiresAt,
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.IsOwner, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Session{}, auth.User{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, auth.User{}, fmt.Errorf("find active session: %w", err)
	}

	return session, user, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("delete session by token hash: %w", err)
	}
	return nil
}

// Replace atomically swaps an old session row for a new one. Rotation must
// never leave both sessions alive or neither.
func (r *SessionRepo) Replace(ctx context.Context, oldID uuid.UUID, next auth.Session) (auth.Session, error) {
	if r.pool == nil {
		return auth.Session{}, fmt.Errorf("postgres pool is nil")
	}

	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, oldID)
		if err != nil {
			return fmt.Errorf("delete old session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return auth.ErrSessionNotFound
		}

		return tx.QueryRow(ctx, `
INSERT INTO sessions (user_id, token_hash, expires_at)
VALUES ($1, $2, $3)
RETURNING id, user_id, token_hash, created_at, expires_at
`, next.UserID, next.TokenHash, next.ExpiresAt).
			Scan(&next.ID, &next.UserID, &next.TokenHash, &next.CreatedAt, &next.ExpiresAt)
	})
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, fmt.Errorf("replace session: %w", err)
	}

	return next, nil
}
