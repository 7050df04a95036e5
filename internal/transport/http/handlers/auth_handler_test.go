package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/fourpaws/backend/internal/services/auth"
	ratesvc "github.com/fourpaws/backend/internal/services/rate"
)

type userStoreStub struct {
	users map[string]authsvc.User
}

func (s *userStoreStub) FindByEmail(_ context.Context, email string) (authsvc.User, error) {
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return authsvc.User{}, authsvc.ErrUserNotFound
	}
	return u, nil
}

func (s *userStoreStub) Insert(_ context.Context, user authsvc.User) (authsvc.User, error) {
	user.ID = uuid.New()
	s.users[strings.ToLower(user.Email)] = user
	return user, nil
}

type sessionStoreStub struct {
	sessions map[uuid.UUID]authsvc.Session
	users    *userStoreStub
}

func (s *sessionStoreStub) Insert(_ context.Context, session authsvc.Session) (authsvc.Session, error) {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	s.sessions[session.ID] = session
	return session, nil
}

func (s *sessionStoreStub) FindActive(_ context.Context, tokenHash string, userID uuid.UUID, now time.Time) (authsvc.Session, authsvc.User, error) {
	for _, session := range s.sessions {
		if session.TokenHash == tokenHash && session.UserID == userID && session.ExpiresAt.After(now) {
			for _, u := range s.users.users {
				if u.ID == userID {
					return session, u, nil
				}
			}
		}
	}
	return authsvc.Session{}, authsvc.User{}, authsvc.ErrSessionNotFound
}

func (s *sessionStoreStub) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.sessions, id)
	return nil
}

func (s *sessionStoreStub) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	for id, session := range s.sessions {
		if session.TokenHash == tokenHash {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *sessionStoreStub) Replace(ctx context.Context, oldID uuid.UUID, next authsvc.Session) (authsvc.Session, error) {
	if _, ok := s.sessions[oldID]; !ok {
		return authsvc.Session{}, authsvc.ErrSessionNotFound
	}
	delete(s.sessions, oldID)
	return s.Insert(ctx, next)
}

func newAuthFixture(t *testing.T) (*AuthHandler, *authsvc.Service) {
	t.Helper()

	users := &userStoreStub{users: make(map[string]authsvc.User)}
	sessions := &sessionStoreStub{sessions: make(map[uuid.UUID]authsvc.Session), users: users}
	cookies := authsvc.NewCookieManager(strings.Repeat("s", 32), 14*24*time.Hour, false)
	svc := authsvc.NewService(users, sessions, cookies)

	if _, err := svc.EnsureOwnerExists(context.Background(), "owner@example.com", "correct-horse-battery", "Owner"); err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	limiter := ratesvc.NewLimiter(ratesvc.NewMemoryStore())
	handler := NewAuthHandler(svc, limiter, ratesvc.Policy{Points: 5, Window: time.Minute})
	return handler, svc
}

func performLogin(t *testing.T, h *AuthHandler, remoteAddr, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h, _ := newAuthFixture(t)

	rec := performLogin(t, h, "10.0.0.1:1234", "owner@example.com", "correct-horse-battery")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	cookie := rec.Header().Get("Set-Cookie")
	if !strings.HasPrefix(cookie, authsvc.CookieName+"=") {
		t.Fatalf("expected session cookie, got %q", cookie)
	}
	if !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("cookie should be HttpOnly: %q", cookie)
	}

	var payload struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.User.Email != "owner@example.com" {
		t.Fatalf("unexpected user email %q", payload.User.Email)
	}
}

func TestLoginBadCredentialsAreGeneric(t *testing.T) {
	h, _ := newAuthFixture(t)

	unknown := performLogin(t, h, "10.0.0.2:1234", "nobody@example.com", "correct-horse-battery")
	wrongPassword := performLogin(t, h, "10.0.0.2:1234", "owner@example.com", "wrong-password-long")

	for _, rec := range []*httptest.ResponseRecorder{unknown, wrongPassword} {
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
		}
	}
	if unknown.Body.String() != wrongPassword.Body.String() {
		t.Fatalf("failure responses must be indistinguishable: %q vs %q", unknown.Body.String(), wrongPassword.Body.String())
	}
}

func TestLoginRateLimitPerIP(t *testing.T) {
	h, _ := newAuthFixture(t)

	for i := 0; i < 5; i++ {
		rec := performLogin(t, h, "10.0.0.3:1234", "owner@example.com", "wrong-password-long")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: got %d want %d", i+1, rec.Code, http.StatusUnauthorized)
		}
	}

	rec := performLogin(t, h, "10.0.0.3:1234", "owner@example.com", "correct-horse-battery")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("sixth attempt: got %d want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "RATE_LIMITED" || payload.RetryAfterSec <= 0 {
		t.Fatalf("unexpected payload %+v", payload)
	}

	// A different client IP is unaffected.
	other := performLogin(t, h, "10.0.0.4:1234", "owner@example.com", "correct-horse-battery")
	if other.Code != http.StatusOK {
		t.Fatalf("other ip: got %d want %d", other.Code, http.StatusOK)
	}
}

func TestLogoutAlwaysDestroysCookie(t *testing.T) {
	h, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected destroy cookie, got %q", cookie)
	}
}

// cookiePair strips Set-Cookie attributes down to the name=value pair a
// client would send back in the Cookie header.
func cookiePair(setCookie string) string {
	pair, _, _ := strings.Cut(setCookie, ";")
	return strings.TrimSpace(pair)
}

func TestRotateInvalidatesOldCookie(t *testing.T) {
	h, svc := newAuthFixture(t)

	login := performLogin(t, h, "10.0.0.5:1234", "owner@example.com", "correct-horse-battery")
	oldCookie := cookiePair(login.Header().Get("Set-Cookie"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/rotate", nil)
	req.Header.Set("Cookie", oldCookie)
	rec := httptest.NewRecorder()
	h.Rotate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("rotate: got %d want %d", rec.Code, http.StatusOK)
	}
	newCookie := cookiePair(rec.Header().Get("Set-Cookie"))
	if newCookie == "" || newCookie == oldCookie {
		t.Fatal("expected a fresh session cookie")
	}

	if _, err := svc.RequireSession(context.Background(), oldCookie); err == nil {
		t.Fatal("old cookie should be rejected after rotation")
	}
	if _, err := svc.RequireSession(context.Background(), newCookie); err != nil {
		t.Fatalf("new cookie should be accepted: %v", err)
	}
}
