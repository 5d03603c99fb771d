package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a fetch failure. The kind is surfaced as the reason
// on stale fallback responses.
type ErrorKind string

const (
	// KindHTTP represents a non-2xx response received within the deadline.
	KindHTTP ErrorKind = "http"

	// KindTimeout represents no response within the deadline. The
	// underlying request is cancelled, not merely abandoned.
	KindTimeout ErrorKind = "timeout"

	// KindNetwork represents a connection failure.
	KindNetwork ErrorKind = "network"

	// KindDecode represents a 2xx response whose body is not valid JSON.
	KindDecode ErrorKind = "decode"
)

// Error is a typed fetch failure.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int // non-zero when a response was received
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fetch %s error for %s: %v", e.Kind, e.URL, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s error for %s (status %d)", e.Kind, e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s error for %s", e.Kind, e.URL)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the fetch failure kind of err, or "" if err is not a fetch
// error.
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// classify maps a transport error to its failure kind.
func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
