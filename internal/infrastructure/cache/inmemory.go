// Package cache provides idempotency key storage. The Redis store is the
// production backend; the in-memory store serves single-instance deployments
// and tests.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/retailops/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed keys in a map with expiry times.
// Keys are purged lazily on access.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
	}
}

// MarkProcessed marks a key as processed with a TTL.
// Returns true if the key was newly marked.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expiry, ok := s.entries[key]; ok && expiry.After(now) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed checks if a key has already been processed
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if !expiry.After(time.Now()) {
		delete(s.entries, key)
		return false, nil
	}
	return true, nil
}

// Close releases resources
func (s *InMemoryIdempotencyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]time.Time)
	return nil
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
