package store

import (
	"testing"
	"time"
)

func TestEntry_IsFresh(t *testing.T) {
	tests := []struct {
		name     string
		storedAt time.Time
		ttl      time.Duration
		want     bool
	}{
		{
			name:     "fresh",
			storedAt: time.Now(),
			ttl:      5 * time.Minute,
			want:     true,
		},
		{
			name:     "expired",
			storedAt: time.Now().Add(-10 * time.Minute),
			ttl:      5 * time.Minute,
			want:     false,
		},
		{
			name:     "just_expired",
			storedAt: time.Now().Add(-5*time.Minute - time.Second),
			ttl:      5 * time.Minute,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{
				Payload:  []byte(`{}`),
				StoredAt: tt.storedAt,
				TTL:      tt.ttl,
			}
			if got := entry.IsFresh(); got != tt.want {
				t.Errorf("IsFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_ExpiresAt(t *testing.T) {
	storedAt := time.Now()
	entry := &Entry{
		Payload:  []byte(`{}`),
		StoredAt: storedAt,
		TTL:      time.Minute,
	}

	want := storedAt.Add(time.Minute)
	if !entry.ExpiresAt().Equal(want) {
		t.Errorf("ExpiresAt() = %v, want %v", entry.ExpiresAt(), want)
	}
}

func TestNewEntry(t *testing.T) {
	entry := NewEntry([]byte(`{"a":1}`), 30*time.Second)

	if string(entry.Payload) != `{"a":1}` {
		t.Errorf("Unexpected payload: %s", entry.Payload)
	}
	if entry.TTL != 30*time.Second {
		t.Errorf("Unexpected TTL: %v", entry.TTL)
	}
	if time.Since(entry.StoredAt) > time.Second {
		t.Errorf("StoredAt not close to now: %v", entry.StoredAt)
	}
	if !entry.IsFresh() {
		t.Error("New entry should be fresh")
	}
}

func TestKey(t *testing.T) {
	if got := Key("demo_info"); got != "mcp:ep:demo_info" {
		t.Errorf("Key() = %q, want %q", got, "mcp:ep:demo_info")
	}
}
