package store

import (
	"time"
)

// Entry is a stored endpoint payload with its freshness bookkeeping.
type Entry struct {
	// Payload is the most recently successfully fetched response body.
	Payload []byte `json:"payload"`

	// StoredAt is when the payload was stored.
	StoredAt time.Time `json:"stored_at"`

	// TTL is the freshness window, copied from the endpoint configuration
	// at store time. Later configuration changes do not affect entries
	// already stored.
	TTL time.Duration `json:"ttl"`
}

// NewEntry creates an entry stored now with the given TTL.
func NewEntry(payload []byte, ttl time.Duration) *Entry {
	return &Entry{
		Payload:  payload,
		StoredAt: time.Now(),
		TTL:      ttl,
	}
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.StoredAt)
}

// IsFresh returns true while the entry's age is below its TTL.
func (e *Entry) IsFresh() bool {
	return e.Age() < e.TTL
}

// ExpiresAt returns when the entry transitions from fresh to stale.
func (e *Entry) ExpiresAt() time.Time {
	return e.StoredAt.Add(e.TTL)
}
