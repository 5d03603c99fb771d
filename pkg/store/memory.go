package store

import (
	"context"
	"strings"
	"sync"
	"time"
)

const backendMemory = "memory"

// MemoryStore is an in-memory Store implementation. It is the default for
// single-process deployments and unit tests; entries live for the lifetime
// of the process unless deleted.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

// Set stores or overwrites the payload for key.
func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	entry := NewEntry(payload, ttl)
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// GetFresh returns the payload only if the entry is within its TTL.
// Expired entries are kept for the stale path, not deleted.
func (s *MemoryStore) GetFresh(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !entry.IsFresh() {
		CacheMisses.WithLabelValues(backendMemory).Inc()
		return nil, ErrMiss
	}

	CacheHits.WithLabelValues(backendMemory).Inc()
	return entry.Payload, nil
}

// GetStale returns the payload regardless of freshness.
func (s *MemoryStore) GetStale(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrAbsent
	}

	StaleHits.WithLabelValues(backendMemory).Inc()
	return entry.Payload, nil
}

// Delete removes the entry for key. No-op if absent.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// ListKeys returns all stored keys starting with prefix.
func (s *MemoryStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
