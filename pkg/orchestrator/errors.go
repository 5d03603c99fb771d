package orchestrator

import (
	"errors"
	"fmt"
)

// ErrUnknownEndpoint indicates the requested key is not in the registry.
// No state changes when this is returned.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// FetchFailedError reports a live fetch failure with no stale entry to fall
// back on. It is the only way a fetch-layer failure escapes the
// orchestrator.
type FetchFailedError struct {
	Key   string
	Cause error
}

// Error implements the error interface.
func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch failed for endpoint %q: %v", e.Key, e.Cause)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchFailedError) Unwrap() error {
	return e.Cause
}
