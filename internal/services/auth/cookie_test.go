package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCookieManager(t *testing.T, now time.Time) *CookieManager {
	t.Helper()

	m := NewCookieManager(testSecret, 14*24*time.Hour, false)
	m.now = func() time.Time { return now }
	return m
}

func TestCookieRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestCookieManager(t, now)
	userID := uuid.New()

	issued, err := m.Issue(userID)
	if err != nil {
		t.Fatalf("issue cookie: %v", err)
	}
	if len(issued.Token) != 64 {
		t.Fatalf("expected 256-bit hex token, got %d chars", len(issued.Token))
	}
	if !strings.Contains(issued.Cookie, "HttpOnly") || !strings.Contains(issued.Cookie, "SameSite=Lax") {
		t.Fatalf("cookie attributes missing: %q", issued.Cookie)
	}
	if !strings.Contains(issued.Cookie, "Max-Age=1209600") {
		t.Fatalf("expected 14 day max-age: %q", issued.Cookie)
	}

	payload, ok := m.Read(cookieHeader(issued.Cookie))
	if !ok {
		t.Fatalf("round-trip read failed")
	}
	if payload.UserID != userID {
		t.Fatalf("user id mismatch: got %s want %s", payload.UserID, userID)
	}
	if payload.Token != issued.Token {
		t.Fatalf("token mismatch")
	}
	if payload.ExpiresAt != now.Add(14*24*time.Hour).UnixMilli() {
		t.Fatalf("unexpected expiry %d", payload.ExpiresAt)
	}
}

func TestCookieRejectsTamperedSignature(t *testing.T) {
	now := time.Now()
	m := newTestCookieManager(t, now)

	issued, err := m.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue cookie: %v", err)
	}

	header := cookieHeader(issued.Cookie)
	dot := strings.LastIndex(header, ".")
	if dot < 0 {
		t.Fatalf("cookie value has no signature segment: %q", header)
	}

	// flip one character inside the signature
	flipped := []byte(header)
	if flipped[dot+1] == 'A' {
		flipped[dot+1] = 'B'
	} else {
		flipped[dot+1] = 'A'
	}

	if _, ok := m.Read(string(flipped)); ok {
		t.Fatalf("tampered signature accepted")
	}
}

func TestCookieRejectsExpiredPayload(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := newTestCookieManager(t, issuedAt)

	issued, err := m.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue cookie: %v", err)
	}

	// same valid signature, clock past expiry
	m.now = func() time.Time { return issuedAt.Add(15 * 24 * time.Hour) }
	if _, ok := m.Read(cookieHeader(issued.Cookie)); ok {
		t.Fatalf("expired payload accepted")
	}
}

func TestCookieRejectsMissingParts(t *testing.T) {
	m := newTestCookieManager(t, time.Now())

	for _, header := range []string{
		"",
		CookieName + "=",
		CookieName + "=no-dot-here",
		CookieName + "=.signature-only",
		"other_cookie=value",
	} {
		if _, ok := m.Read(header); ok {
			t.Fatalf("malformed header %q accepted", header)
		}
	}
}

func TestDestroyCookie(t *testing.T) {
	m := newTestCookieManager(t, time.Now())

	destroyed := m.Destroy()
	if !strings.HasPrefix(destroyed, CookieName+"=") {
		t.Fatalf("destroy cookie has wrong name: %q", destroyed)
	}
	if !strings.Contains(destroyed, "Max-Age=0") {
		t.Fatalf("destroy cookie should expire immediately: %q", destroyed)
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	h1 := HashToken("token-a")
	h2 := HashToken("token-a")
	h3 := HashToken("token-b")

	if h1 != h2 {
		t.Fatalf("hash is not deterministic")
	}
	if h1 == h3 {
		t.Fatalf("different tokens share a hash")
	}
	if len(h1) != 64 {
		t.Fatalf("expected sha-256 hex digest, got %d chars", len(h1))
	}
}

// cookieHeader turns a Set-Cookie value into the Cookie header a client
// would send back.
func cookieHeader(setCookie string) string {
	value, _, _ := strings.Cut(setCookie, ";")
	return value
}
