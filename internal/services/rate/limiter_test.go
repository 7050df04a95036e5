package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/fourpaws/backend/internal/repo/redis"
)

func TestMemoryStoreFixedWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	limiter := NewLimiter(store)
	limiter.now = store.now

	ctx := context.Background()
	policy := Policy{Points: 5, Window: time.Minute}

	for i := 0; i < 5; i++ {
		res, err := limiter.Consume(ctx, "login:1.2.3.4", policy)
		if err != nil {
			t.Fatalf("consume #%d: %v", i+1, err)
		}
		if res.Limited {
			t.Fatalf("consume #%d should not be limited", i+1)
		}
		if res.Remaining != 5-(i+1) {
			t.Fatalf("consume #%d: remaining=%d want %d", i+1, res.Remaining, 5-(i+1))
		}
	}

	res, err := limiter.Consume(ctx, "login:1.2.3.4", policy)
	if err != nil {
		t.Fatalf("consume #6: %v", err)
	}
	if !res.Limited {
		t.Fatalf("sixth consume within the window should be limited")
	}
	if res.Remaining != 0 {
		t.Fatalf("limited result should have remaining=0, got %d", res.Remaining)
	}
	if res.RetryAfter(now) <= 0 {
		t.Fatalf("limited result should carry positive retry-after")
	}

	// a different key is an independent window
	other, err := limiter.Consume(ctx, "login:5.6.7.8", policy)
	if err != nil {
		t.Fatalf("consume other key: %v", err)
	}
	if other.Limited {
		t.Fatalf("fresh key should not be limited")
	}

	// window elapses, counter resets
	now = now.Add(61 * time.Second)
	res, err = limiter.Consume(ctx, "login:1.2.3.4", policy)
	if err != nil {
		t.Fatalf("consume after window: %v", err)
	}
	if res.Limited {
		t.Fatalf("fresh window should not be limited")
	}
	if res.Remaining != 4 {
		t.Fatalf("fresh window remaining=%d want 4", res.Remaining)
	}
}

func TestLimiterRejectsInvalidPolicy(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore())

	if _, err := limiter.Consume(context.Background(), "", Policy{Points: 5, Window: time.Minute}); err == nil {
		t.Fatalf("empty key accepted")
	}
	if _, err := limiter.Consume(context.Background(), "k", Policy{Points: 0, Window: time.Minute}); err == nil {
		t.Fatalf("zero points accepted")
	}
}

func TestRedisStoreFixedWindow(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client))
	ctx := context.Background()
	policy := Policy{Points: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		res, err := limiter.Consume(ctx, "memorials:create:42", policy)
		if err != nil {
			t.Fatalf("consume #%d: %v", i+1, err)
		}
		if res.Limited {
			t.Fatalf("consume #%d should not be limited", i+1)
		}
	}

	res, err := limiter.Consume(ctx, "memorials:create:42", policy)
	if err != nil {
		t.Fatalf("consume #4: %v", err)
	}
	if !res.Limited {
		t.Fatalf("fourth consume within the window should be limited")
	}

	mr.FastForward(61 * time.Second)

	res, err = limiter.Consume(ctx, "memorials:create:42", policy)
	if err != nil {
		t.Fatalf("consume after fast forward: %v", err)
	}
	if res.Limited {
		t.Fatalf("window should have reset after fast forward")
	}
}
