package rate

import (
	"context"
	"sync"
	"time"
)

type memoryWindow struct {
	hits    int64
	resetAt time.Time
}

// MemoryStore is the single-instance WindowStore: a mutex-guarded map of
// live windows. Stale keys are dropped lazily when touched again, so an
// idle key lingers at most until its next use.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

func (s *MemoryStore) IncrementWindow(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	current, ok := s.windows[key]
	if !ok || !current.resetAt.After(now) {
		current = &memoryWindow{hits: 1, resetAt: now.Add(window)}
		s.windows[key] = current
		return current.hits, window, nil
	}

	current.hits++
	return current.hits, current.resetAt.Sub(now), nil
}
