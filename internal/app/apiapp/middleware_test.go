package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	authsvc "github.com/fourpaws/backend/internal/services/auth"
)

type memUserStore struct {
	users map[string]authsvc.User
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (authsvc.User, error) {
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return authsvc.User{}, authsvc.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) Insert(_ context.Context, user authsvc.User) (authsvc.User, error) {
	user.ID = uuid.New()
	s.users[strings.ToLower(user.Email)] = user
	return user, nil
}

type memSessionStore struct {
	users    *memUserStore
	sessions map[string]authsvc.Session
}

func (s *memSessionStore) Insert(_ context.Context, session authsvc.Session) (authsvc.Session, error) {
	session.ID = uuid.New()
	s.sessions[session.TokenHash] = session
	return session, nil
}

func (s *memSessionStore) FindActive(_ context.Context, tokenHash string, userID uuid.UUID, now time.Time) (authsvc.Session, authsvc.User, error) {
	session, ok := s.sessions[tokenHash]
	if !ok || session.UserID != userID || !session.ExpiresAt.After(now) {
		return authsvc.Session{}, authsvc.User{}, authsvc.ErrSessionNotFound
	}
	for _, user := range s.users.users {
		if user.ID == userID {
			return session, user, nil
		}
	}
	return authsvc.Session{}, authsvc.User{}, authsvc.ErrSessionNotFound
}

func (s *memSessionStore) Delete(_ context.Context, id uuid.UUID) error {
	for hash, session := range s.sessions {
		if session.ID == id {
			delete(s.sessions, hash)
		}
	}
	return nil
}

func (s *memSessionStore) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	delete(s.sessions, tokenHash)
	return nil
}

func (s *memSessionStore) Replace(_ context.Context, oldID uuid.UUID, next authsvc.Session) (authsvc.Session, error) {
	if err := s.Delete(context.Background(), oldID); err != nil {
		return authsvc.Session{}, err
	}
	return s.Insert(context.Background(), next)
}

func newGuardFixture(t *testing.T) (*authsvc.Service, string) {
	t.Helper()

	hash, err := authsvc.HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	users := &memUserStore{users: map[string]authsvc.User{}}
	if _, err := users.Insert(context.Background(), authsvc.User{
		Email:        "owner@example.com",
		PasswordHash: hash,
		IsOwner:      true,
	}); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	sessions := &memSessionStore{users: users, sessions: map[string]authsvc.Session{}}
	cookies := authsvc.NewCookieManager(strings.Repeat("s", 32), 14*24*time.Hour, false)
	service := authsvc.NewService(users, sessions, cookies)

	result, err := service.Authenticate(context.Background(), authsvc.Credentials{
		Email:    "owner@example.com",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	cookie, _, _ := strings.Cut(result.Cookie, ";")
	return service, strings.TrimSpace(cookie)
}

func TestAuthMiddlewareRejectsWithoutCookie(t *testing.T) {
	service, _ := newGuardFixture(t)

	router := chi.NewRouter()
	router.Use(AuthMiddleware(service, zap.NewNop()))
	router.Get("/protected", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
		t.Fatalf("body = %q, want UNAUTHORIZED code", rec.Body.String())
	}
}

func TestAuthMiddlewareRejectsTamperedCookie(t *testing.T) {
	service, cookie := newGuardFixture(t)

	router := chi.NewRouter()
	router.Use(AuthMiddleware(service, zap.NewNop()))
	router.Get("/protected", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Cookie", cookie+"x")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewarePassesIdentityThrough(t *testing.T) {
	service, cookie := newGuardFixture(t)

	var seen authsvc.Identity
	router := chi.NewRouter()
	router.Use(AuthMiddleware(service, zap.NewNop()))
	router.Get("/protected", func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("identity missing from request context")
		}
		seen = identity
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Cookie", cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if seen.Email != "owner@example.com" {
		t.Fatalf("identity email = %q, want owner@example.com", seen.Email)
	}
	if seen.UserID == uuid.Nil {
		t.Fatal("identity user id is zero")
	}
	if seen.ClientIP == "" {
		t.Fatal("identity client ip is empty")
	}
}

func TestAuthMiddlewareRejectsRevokedSession(t *testing.T) {
	service, cookie := newGuardFixture(t)

	if _, err := service.SignOut(context.Background(), cookie); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	router := chi.NewRouter()
	router.Use(AuthMiddleware(service, zap.NewNop()))
	router.Get("/protected", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Cookie", cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
