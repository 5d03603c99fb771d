// Package tools exposes the cache operations in the shape consumed by the
// external tool-invocation layer: one operation per tool, structured result
// objects, and structured error objects instead of raw errors.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aaryaranjit03/google-mcp-server/pkg/logging"
	"github.com/aaryaranjit03/google-mcp-server/pkg/orchestrator"
	"github.com/aaryaranjit03/google-mcp-server/pkg/registry"
)

// Error codes surfaced to the tool layer.
const (
	CodeUnknownEndpoint = "unknown_endpoint"
	CodeFetchFailed     = "fetch_failed"
	CodeConfigError     = "config_error"
)

// Error is a structured tool failure.
type Error struct {
	Code   string `json:"error"`
	Detail string `json:"detail"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// EndpointInfo is the result of the get_endpoint_info tool.
type EndpointInfo struct {
	Endpoint string          `json:"endpoint"`
	Payload  json.RawMessage `json:"payload"`
	Source   string          `json:"source"`
	Reason   string          `json:"reason,omitempty"`
}

// InvalidateResult is the result of the invalidate_cache tool.
type InvalidateResult struct {
	Status string `json:"status"`
}

// KeyList is the result of the list_cached_keys tool.
type KeyList struct {
	Keys []string `json:"keys"`
}

// Service adapts the orchestrator to the tool surface.
type Service struct {
	orch   *orchestrator.Orchestrator
	logger zerolog.Logger
}

// NewService creates a tool service over the given orchestrator.
func NewService(orch *orchestrator.Orchestrator) *Service {
	if orch == nil {
		panic("tools: orchestrator cannot be nil")
	}
	return &Service{
		orch:   orch,
		logger: logging.NewLogger("tools"),
	}
}

// GetEndpointInfo resolves the payload for endpointKey.
// Failures are returned as *Error.
func (s *Service) GetEndpointInfo(ctx context.Context, endpointKey string) (*EndpointInfo, error) {
	res, err := s.orch.Resolve(ctx, endpointKey)
	if err != nil {
		return nil, toToolError(err)
	}
	return &EndpointInfo{
		Endpoint: res.Key,
		Payload:  json.RawMessage(res.Payload),
		Source:   string(res.Source),
		Reason:   res.Reason,
	}, nil
}

// InvalidateCache drops any cached entry for endpointKey.
func (s *Service) InvalidateCache(ctx context.Context, endpointKey string) (*InvalidateResult, error) {
	if err := s.orch.Invalidate(ctx, endpointKey); err != nil {
		return nil, toToolError(err)
	}
	return &InvalidateResult{Status: "ok"}, nil
}

// ListCachedKeys returns the currently cached store keys in lexicographic
// order. The listing never fails.
func (s *Service) ListCachedKeys(ctx context.Context) *KeyList {
	keys := s.orch.ListCachedKeys(ctx)
	if keys == nil {
		keys = []string{}
	}
	return &KeyList{Keys: keys}
}

// toToolError maps internal errors onto the structured tool error
// vocabulary.
func toToolError(err error) *Error {
	switch {
	case errors.Is(err, orchestrator.ErrUnknownEndpoint),
		errors.Is(err, registry.ErrNotFound):
		return &Error{Code: CodeUnknownEndpoint, Detail: err.Error()}
	}

	var cfgErr *registry.ConfigError
	if errors.As(err, &cfgErr) {
		return &Error{Code: CodeConfigError, Detail: err.Error()}
	}

	// Everything else reaching the tool layer is a resolve that could not
	// be served.
	return &Error{Code: CodeFetchFailed, Detail: err.Error()}
}
