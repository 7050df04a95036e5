package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	IsOwner      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionPayload is the client-held half of a session: it travels inside the
// signed cookie and is never persisted as-is. ExpiresAt is unix milliseconds.
type SessionPayload struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt int64     `json:"expiresAt"`
}

type Credentials struct {
	Email    string
	Password string
}

type LoginResult struct {
	User    User
	Cookie  string
	Payload SessionPayload
}

type SessionContext struct {
	User    User
	Session Session
	Payload SessionPayload
}
