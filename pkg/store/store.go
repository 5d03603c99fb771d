// Package store provides the TTL cache store backing the endpoint cache.
//
// Unlike a conventional expiring cache, entries never disappear purely
// because their TTL elapsed: an expired entry stays retrievable through
// GetStale until it is explicitly deleted or overwritten. Freshness is
// computed from the stored timestamp at read time; there is no background
// sweep.
package store

import (
	"context"
	"errors"
	"time"
)

// Namespace is the fixed key prefix under which endpoint payloads are stored.
const Namespace = "mcp:ep:"

// Key returns the namespaced store key for an endpoint key.
func Key(endpointKey string) string {
	return Namespace + endpointKey
}

var (
	// ErrMiss indicates no fresh entry exists for the key. The entry may
	// still be present in stale form.
	ErrMiss = errors.New("cache miss")

	// ErrAbsent indicates no entry exists at all: nothing was ever stored
	// for the key, or it was explicitly deleted.
	ErrAbsent = errors.New("cache entry absent")

	// ErrInvalidEntry indicates a stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the TTL key-value store interface.
//
// Contract:
//   - Implementations must be safe for concurrent use; operations on the
//     same key are atomic with respect to each other.
//   - Concurrent Set calls for the same key are last-writer-wins.
//   - GetFresh returns ErrMiss for expired entries even though the entry
//     still physically exists.
//   - GetStale ignores freshness and returns ErrAbsent only when no entry
//     was ever stored (or it was deleted).
//   - Delete is idempotent.
type Store interface {
	// Set stores or overwrites the payload for key, recording the store
	// time as now.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// GetFresh returns the payload only if the entry is within its TTL.
	GetFresh(ctx context.Context, key string) ([]byte, error)

	// GetStale returns the payload regardless of freshness.
	GetStale(ctx context.Context, key string) ([]byte, error)

	// Delete removes the entry for key. No error if absent.
	Delete(ctx context.Context, key string) error

	// ListKeys returns all stored keys starting with prefix, in no
	// particular order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
