package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fourpaws/backend/internal/pkg/validate"
)

const minPasswordLen = 12

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Insert(ctx context.Context, user User) (User, error)
}

type SessionStore interface {
	Insert(ctx context.Context, session Session) (Session, error)
	FindActive(ctx context.Context, tokenHash string, userID uuid.UUID, now time.Time) (Session, User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	Replace(ctx context.Context, oldID uuid.UUID, next Session) (Session, error)
}

type Service struct {
	users    UserStore
	sessions SessionStore
	cookies  *CookieManager
	now      func() time.Time
}

func NewService(users UserStore, sessions SessionStore, cookies *CookieManager) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		cookies:  cookies,
		now:      time.Now,
	}
}

// EnsureOwnerExists seeds the single administrative account. It is
// idempotent: an already-registered email wins and its password is never
// overwritten.
func (s *Service) EnsureOwnerExists(ctx context.Context, email, password, displayName string) (User, error) {
	email = strings.TrimSpace(email)
	if !validate.Email(email) || password == "" {
		return User{}, ErrInvalidInput
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("find user by email: %w", err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user, err := s.users.Insert(ctx, User{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(displayName),
		IsOwner:      true,
	})
	if err != nil {
		return User{}, fmt.Errorf("insert owner user: %w", err)
	}

	return user, nil
}

// Authenticate checks credentials and opens a session. Unknown email and
// wrong password collapse into the same ErrInvalidCredentials so callers
// cannot enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (LoginResult, error) {
	email := strings.TrimSpace(creds.Email)
	if !validate.Email(email) || len(creds.Password) < minPasswordLen {
		return LoginResult{}, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("find user by email: %w", err)
	}

	if !VerifyPassword(creds.Password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	issued, err := s.cookies.Issue(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue session cookie: %w", err)
	}

	if _, err := s.sessions.Insert(ctx, Session{
		UserID:    user.ID,
		TokenHash: HashToken(issued.Token),
		CreatedAt: s.now(),
		ExpiresAt: time.UnixMilli(issued.Payload.ExpiresAt),
	}); err != nil {
		return LoginResult{}, fmt.Errorf("insert session: %w", err)
	}

	return LoginResult{User: user, Cookie: issued.Cookie, Payload: issued.Payload}, nil
}

// RequireSession is the single authorization gate. A session is valid only
// when the cookie signature verifies, the payload has not expired, and a
// matching non-expired row still exists server-side; the row check is what
// makes sign-out and revocation stick even though the cookie is self-signed.
func (s *Service) RequireSession(ctx context.Context, cookieHeader string) (SessionContext, error) {
	payload, ok := s.cookies.Read(cookieHeader)
	if !ok {
		return SessionContext{}, ErrUnauthorized
	}

	session, user, err := s.sessions.FindActive(ctx, HashToken(payload.Token), payload.UserID, s.now())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return SessionContext{}, ErrUnauthorized
		}
		return SessionContext{}, fmt.Errorf("find active session: %w", err)
	}

	return SessionContext{User: user, Session: session, Payload: payload}, nil
}

// RotateSession replaces the caller's session with a fresh one. The old row
// is deleted and the new one inserted inside a single transaction, so a
// crash mid-rotation leaves the user logged out rather than holding two
// live tokens.
func (s *Service) RotateSession(ctx context.Context, cookieHeader string) (LoginResult, error) {
	active, err := s.RequireSession(ctx, cookieHeader)
	if err != nil {
		return LoginResult{}, err
	}

	issued, err := s.cookies.Issue(active.User.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue session cookie: %w", err)
	}

	if _, err := s.sessions.Replace(ctx, active.Session.ID, Session{
		UserID:    active.User.ID,
		TokenHash: HashToken(issued.Token),
		CreatedAt: s.now(),
		ExpiresAt: time.UnixMilli(issued.Payload.ExpiresAt),
	}); err != nil {
		return LoginResult{}, fmt.Errorf("replace session: %w", err)
	}

	return LoginResult{User: active.User, Cookie: issued.Cookie, Payload: issued.Payload}, nil
}

// SignOut deletes the caller's session row if the cookie still decodes. The
// destroy cookie is returned unconditionally so logout stays idempotent.
func (s *Service) SignOut(ctx context.Context, cookieHeader string) (string, error) {
	destroy := s.cookies.Destroy()

	payload, ok := s.cookies.Read(cookieHeader)
	if !ok {
		return destroy, nil
	}

	if err := s.sessions.DeleteByTokenHash(ctx, HashToken(payload.Token)); err != nil {
		return destroy, fmt.Errorf("delete session: %w", err)
	}

	return destroy, nil
}

// RevokeSession deletes one session by its raw token, independent of any
// cookie flow.
func (s *Service) RevokeSession(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteByTokenHash(ctx, HashToken(token)); err != nil {
		return fmt.Errorf("delete session by token: %w", err)
	}
	return nil
}
