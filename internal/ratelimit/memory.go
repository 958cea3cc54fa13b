package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowRecord struct {
	count       int64
	windowStart time.Time
}

// MemoryStore is the in-process fallback counter. It is correct only within
// a single process; under multiple instances each process counts
// independently. Records are never evicted, so the map grows with the number
// of distinct keys seen over the process lifetime.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*windowRecord
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process counter
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*windowRecord),
		now:     time.Now,
	}
}

// NewMemoryStoreWithClock creates a counter with an injected clock, so tests
// can advance time deterministically
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*windowRecord),
		now:     now,
	}
}

// Incr increments the counter for key. Once the elapsed time since the
// window started exceeds the window duration, the record resets to a fresh
// window with count 1.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[key]
	if !ok || now.Sub(rec.windowStart) > window {
		s.records[key] = &windowRecord{count: 1, windowStart: now}
		return 1, nil
	}

	rec.count++
	return rec.count, nil
}

// Len reports the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
