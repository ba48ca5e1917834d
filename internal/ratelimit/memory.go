package ratelimit

import (
	"context"
	"sync"
	"time"
)

type record struct {
	windowStart time.Time
	count       int
}

// MemoryStore is the in-process window store. Windows expire by wall-clock
// comparison on the next access, so the store is self-cleaning without any
// background task.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
}

// NewMemoryStore creates an empty store. now may be nil for wall-clock time;
// tests inject a fake clock.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		records: make(map[string]*record),
		now:     now,
	}
}

var _ Store = (*MemoryStore)(nil)

// Incr performs the check-and-increment under the store lock, making it
// atomic with respect to concurrent requests on the same key.
func (s *MemoryStore) Incr(_ context.Context, key string, limit int, window time.Duration) (int, bool, error) {
	t := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || t.Sub(rec.windowStart) >= window {
		s.records[key] = &record{windowStart: t, count: 1}
		return 1, true, nil
	}

	if rec.count < limit {
		rec.count++
		return rec.count, true, nil
	}

	// At the limit: reject without incrementing.
	return rec.count, false, nil
}

// Len reports the number of live records. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
