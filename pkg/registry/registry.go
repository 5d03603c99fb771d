// Package registry holds the static endpoint configuration: which logical
// endpoint keys exist, where they point, and how long their payloads stay
// fresh. The registry is read-only after construction; configuration changes
// require a process restart.
package registry

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"
)

// DefaultTTL is applied when a configuration entry omits ttl_seconds.
const DefaultTTL = 300 * time.Second

// ErrNotFound indicates the requested endpoint key is not configured.
var ErrNotFound = errors.New("endpoint not found")

// EndpointConfig describes a single configured endpoint.
// Immutable after registry construction.
type EndpointConfig struct {
	// Key is the unique endpoint identifier used by callers.
	Key string

	// Name is a display label for diagnostics.
	Name string

	// URL is the absolute HTTP(S) URL of the upstream JSON resource.
	URL string

	// TTL is the freshness window for cached payloads.
	TTL time.Duration

	// CacheEnabled controls whether payloads for this endpoint are cached.
	// When false, every resolve performs a live fetch and nothing is stored.
	CacheEnabled bool
}

// ConfigError reports an invalid endpoint configuration at load time.
// It is fatal: a registry is never constructed from a bad configuration.
type ConfigError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("endpoint config: %s", e.Reason)
	}
	return fmt.Sprintf("endpoint config %q: %s", e.Key, e.Reason)
}

// Registry is a read-only lookup table of endpoint configurations.
type Registry struct {
	endpoints map[string]EndpointConfig
}

// New validates the given configurations and builds a registry.
// Construction fails with a *ConfigError on empty or duplicate keys,
// non-absolute URLs, or non-positive TTLs.
func New(configs []EndpointConfig) (*Registry, error) {
	endpoints := make(map[string]EndpointConfig, len(configs))

	for _, cfg := range configs {
		if cfg.Key == "" {
			return nil, &ConfigError{Reason: "empty endpoint key"}
		}
		if _, dup := endpoints[cfg.Key]; dup {
			return nil, &ConfigError{Key: cfg.Key, Reason: "duplicate endpoint key"}
		}
		if err := validateURL(cfg.URL); err != nil {
			return nil, &ConfigError{Key: cfg.Key, Reason: err.Error()}
		}
		if cfg.TTL <= 0 {
			return nil, &ConfigError{Key: cfg.Key, Reason: fmt.Sprintf("ttl must be positive, got %v", cfg.TTL)}
		}
		endpoints[cfg.Key] = cfg
	}

	return &Registry{endpoints: endpoints}, nil
}

// Lookup returns the configuration for key.
// Returns an error wrapping ErrNotFound if the key is not configured.
func (r *Registry) Lookup(key string) (EndpointConfig, error) {
	cfg, ok := r.endpoints[key]
	if !ok {
		return EndpointConfig{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return cfg, nil
}

// All returns every configured endpoint, sorted by key.
func (r *Registry) All() []EndpointConfig {
	configs := make([]EndpointConfig, 0, len(r.endpoints))
	for _, cfg := range r.endpoints {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Key < configs[j].Key })
	return configs
}

// Len returns the number of configured endpoints.
func (r *Registry) Len() int {
	return len(r.endpoints)
}

// validateURL checks that raw is a well-formed absolute HTTP(S) URL.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %v", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("URL %q is not absolute", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q has unsupported scheme %q", raw, u.Scheme)
	}
	return nil
}
