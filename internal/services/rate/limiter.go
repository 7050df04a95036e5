package rate

import (
	"context"
	"fmt"
	"time"
)

// WindowStore counts hits inside a fixed window. The in-process MemoryStore
// keeps quotas per instance; the redis-backed store shares them across
// instances.
type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type Policy struct {
	Points int
	Window time.Duration
}

type Result struct {
	Limited   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is a fixed-window counter over an injected store; policy knobs are
// supplied per call site.
type Limiter struct {
	store WindowStore
	now   func() time.Time
}

func NewLimiter(store WindowStore) *Limiter {
	return &Limiter{
		store: store,
		now:   time.Now,
	}
}

func (l *Limiter) Consume(ctx context.Context, key string, policy Policy) (Result, error) {
	if key == "" || policy.Points <= 0 || policy.Window <= 0 {
		return Result{}, fmt.Errorf("invalid rate limit policy for key %q", key)
	}
	if l.store == nil {
		return Result{}, fmt.Errorf("rate limiter store is nil")
	}

	hits, ttl, err := l.store.IncrementWindow(ctx, key, policy.Window)
	if err != nil {
		return Result{}, err
	}

	remaining := policy.Points - int(hits)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Limited:   hits > int64(policy.Points),
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl),
	}, nil
}

// RetryAfter reports how long a limited caller has to wait, rounded up to
// whole seconds for the Retry-After header.
func (r Result) RetryAfter(now time.Time) int64 {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
