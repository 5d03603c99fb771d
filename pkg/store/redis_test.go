package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client. Unit tests skip when no local
// Redis is reachable; tests/integration covers the same paths against a
// containerized instance.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStore should panic with nil redis client")
		}
	}()
	NewRedisStore(nil)
}

func TestRedisStore_SetAndGetFresh(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	if err := s.Set(ctx, "mcp:ep:a", []byte(`{"v":1}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	payload, err := s.GetFresh(ctx, "mcp:ep:a")
	if err != nil {
		t.Fatalf("GetFresh failed: %v", err)
	}
	if string(payload) != `{"v":1}` {
		t.Errorf("Unexpected payload: %s", payload)
	}
}

func TestRedisStore_ExpiredEntryStaysStale(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	if err := s.Set(ctx, "mcp:ep:a", []byte(`{"v":1}`), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := s.GetFresh(ctx, "mcp:ep:a"); !errors.Is(err, ErrMiss) {
		t.Errorf("Expected ErrMiss after expiry, got %v", err)
	}

	payload, err := s.GetStale(ctx, "mcp:ep:a")
	if err != nil {
		t.Fatalf("GetStale failed: %v", err)
	}
	if string(payload) != `{"v":1}` {
		t.Errorf("Unexpected stale payload: %s", payload)
	}
}

func TestRedisStore_GetStale_Absent(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	_, err := s.GetStale(ctx, "mcp:ep:never")
	if !errors.Is(err, ErrAbsent) {
		t.Errorf("Expected ErrAbsent, got %v", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	if err := s.Set(ctx, "mcp:ep:a", []byte(`{}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Delete(ctx, "mcp:ep:a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := s.GetStale(ctx, "mcp:ep:a"); !errors.Is(err, ErrAbsent) {
		t.Errorf("Expected ErrAbsent after delete, got %v", err)
	}

	if err := s.Delete(ctx, "mcp:ep:a"); err != nil {
		t.Errorf("Repeated Delete failed: %v", err)
	}
}

func TestRedisStore_ListKeys(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	for _, key := range []string{"mcp:ep:b", "mcp:ep:a", "other:c"} {
		if err := s.Set(ctx, key, []byte(`{}`), time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	keys, err := s.ListKeys(ctx, "mcp:ep:")
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("Expected 2 keys, got %d: %v", len(keys), keys)
	}
	for _, key := range keys {
		if key != "mcp:ep:a" && key != "mcp:ep:b" {
			t.Errorf("Unexpected key in listing: %q", key)
		}
	}
}

func TestRedisStore_InvalidEntry(t *testing.T) {
	client := setupTestRedis(t)
	s := NewRedisStore(client)
	ctx := context.Background()

	// Corrupt entry written outside the store.
	if err := client.Set(ctx, "mcp:ep:bad", "not json", 0).Err(); err != nil {
		t.Fatalf("Raw set failed: %v", err)
	}

	_, err := s.GetStale(ctx, "mcp:ep:bad")
	if !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry, got %v", err)
	}
}
