package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	CookieName = "fourpaws_session"

	sessionTokenBytes = 32
)

// CookieManager issues and reads the signed session cookie. The cookie value
// is base64url(JSON payload) + "." + base64url(HMAC-SHA256(secret, encoded
// payload)); the HMAC proves authenticity, the server-side row keyed by the
// token hash keeps revocation possible.
type CookieManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

type IssuedCookie struct {
	Token   string
	Cookie  string
	Payload SessionPayload
}

func NewCookieManager(secret string, ttl time.Duration, secure bool) *CookieManager {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}

	return &CookieManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

func (m *CookieManager) Issue(userID uuid.UUID) (IssuedCookie, error) {
	if len(m.secret) == 0 {
		return IssuedCookie{}, fmt.Errorf("session secret is empty")
	}
	if userID == uuid.Nil {
		return IssuedCookie{}, ErrInvalidInput
	}

	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return IssuedCookie{}, fmt.Errorf("generate session token: %w", err)
	}

	payload := SessionPayload{
		Token:     hex.EncodeToString(raw),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl).UnixMilli(),
	}
	if err := validatePayload(payload); err != nil {
		return IssuedCookie{}, err
	}

	encoded, err := encodePayload(payload)
	if err != nil {
		return IssuedCookie{}, err
	}
	value := encoded + "." + base64.RawURLEncoding.EncodeToString(m.sign(encoded))

	cookie := http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl / time.Second),
	}

	return IssuedCookie{
		Token:   payload.Token,
		Cookie:  cookie.String(),
		Payload: payload,
	}, nil
}

// Read verifies and decodes the session cookie from a raw Cookie header.
// Every failure mode (missing cookie, malformed value, bad signature,
// failed schema check, expired payload) yields ok=false without
// distinguishing why.
func (m *CookieManager) Read(cookieHeader string) (SessionPayload, bool) {
	if cookieHeader == "" {
		return SessionPayload{}, false
	}

	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return SessionPayload{}, false
	}

	var raw string
	for _, c := range cookies {
		if c.Name == CookieName {
			raw = c.Value
			break
		}
	}
	if raw == "" {
		return SessionPayload{}, false
	}

	encoded, signature, found := strings.Cut(raw, ".")
	if !found || encoded == "" || signature == "" {
		return SessionPayload{}, false
	}

	provided, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return SessionPayload{}, false
	}
	expected := m.sign(encoded)
	if len(provided) != len(expected) || !hmac.Equal(provided, expected) {
		return SessionPayload{}, false
	}

	payload, err := decodePayload(encoded)
	if err != nil {
		return SessionPayload{}, false
	}
	if err := validatePayload(payload); err != nil {
		return SessionPayload{}, false
	}
	if m.now().UnixMilli() > payload.ExpiresAt {
		return SessionPayload{}, false
	}

	return payload, true
}

// Destroy returns a Set-Cookie value instructing the client to drop the
// session cookie.
func (m *CookieManager) Destroy() string {
	cookie := http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
	return cookie.String()
}

func (m *CookieManager) TTL() time.Duration {
	return m.ttl
}

// HashToken derives the server-side lookup key for a raw session token, so
// the bearer secret itself never reaches storage.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (m *CookieManager) sign(encodedPayload string) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(encodedPayload))
	return mac.Sum(nil)
}

func encodePayload(payload SessionPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode session payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodePayload(encoded string) (SessionPayload, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return SessionPayload{}, fmt.Errorf("decode session payload: %w", err)
	}

	var payload SessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return SessionPayload{}, fmt.Errorf("unmarshal session payload: %w", err)
	}
	return payload, nil
}

func validatePayload(payload SessionPayload) error {
	if payload.Token == "" || payload.UserID == uuid.Nil || payload.ExpiresAt <= 0 {
		return ErrInvalidInput
	}
	return nil
}
