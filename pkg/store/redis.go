package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const backendRedis = "redis"

// RedisStore is a Redis-backed Store implementation for deployments where
// the cache must survive process restarts.
//
// Entries are stored without a Redis-side TTL so that expired payloads stay
// available to GetStale; freshness is computed from the entry's StoredAt
// timestamp at read time. The key set is small and fixed, so unbounded
// retention is acceptable.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{redis: redisClient}
}

// Set stores or overwrites the payload for key.
func (s *RedisStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	entry := NewEntry(payload, ttl)

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues(backendRedis, "set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	// No Redis expiration: stale entries must remain readable.
	if err := s.redis.Set(ctx, key, data, 0).Err(); err != nil {
		CacheErrors.WithLabelValues(backendRedis, "set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// GetFresh returns the payload only if the entry is within its TTL.
func (s *RedisStore) GetFresh(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.getEntry(ctx, key)
	if err != nil {
		if err == ErrAbsent {
			CacheMisses.WithLabelValues(backendRedis).Inc()
			return nil, ErrMiss
		}
		return nil, err
	}

	if !entry.IsFresh() {
		// Stays stored for the stale path.
		CacheMisses.WithLabelValues(backendRedis).Inc()
		return nil, ErrMiss
	}

	CacheHits.WithLabelValues(backendRedis).Inc()
	return entry.Payload, nil
}

// GetStale returns the payload regardless of freshness.
func (s *RedisStore) GetStale(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.getEntry(ctx, key)
	if err != nil {
		return nil, err
	}
	StaleHits.WithLabelValues(backendRedis).Inc()
	return entry.Payload, nil
}

// Delete removes the entry for key. Idempotent.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		CacheErrors.WithLabelValues(backendRedis, "delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// ListKeys returns all stored keys starting with prefix, using SCAN to
// avoid blocking the Redis server on large keyspaces.
func (s *RedisStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		batch, next, err := s.redis.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			CacheErrors.WithLabelValues(backendRedis, "list").Inc()
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return keys, nil
}

// getEntry loads and decodes the entry for key.
// Returns ErrAbsent when the key does not exist.
func (s *RedisStore) getEntry(ctx context.Context, key string) (*Entry, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrAbsent
		}
		CacheErrors.WithLabelValues(backendRedis, "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues(backendRedis, "get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
