// Package orchestrator implements the per-endpoint fetch, cache, and
// stale-fallback policy.
//
// A resolve walks at most these stages: fresh cache check, coalesced live
// fetch, stale fallback. Fetch-layer failures never escape while a stale
// entry exists; they are converted into a stale-flagged response carrying
// the failure kind as its reason.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/aaryaranjit03/google-mcp-server/pkg/fetch"
	"github.com/aaryaranjit03/google-mcp-server/pkg/logging"
	"github.com/aaryaranjit03/google-mcp-server/pkg/registry"
	"github.com/aaryaranjit03/google-mcp-server/pkg/store"
)

// Prometheus metrics for resolve operations.
var (
	resolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_resolves_total",
		Help: "Total resolves by endpoint and payload source",
	}, []string{"endpoint", "source"})

	resolveFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_resolve_failures_total",
		Help: "Total resolves that failed with nothing to serve",
	}, []string{"endpoint"})

	staleFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_stale_fallbacks_total",
		Help: "Total resolves served stale after a fetch failure, by failure kind",
	}, []string{"endpoint", "reason"})
)

// Source identifies where a resolved payload came from.
type Source string

const (
	// SourceCache is a fresh cache hit; no network call was made.
	SourceCache Source = "cache"

	// SourceLive is a successful live fetch.
	SourceLive Source = "live"

	// SourceStale is an expired cache entry served because the live fetch
	// failed.
	SourceStale Source = "stale"
)

// Resolution is the outcome of a successful resolve.
type Resolution struct {
	// Key is the logical endpoint key.
	Key string

	// Payload is the JSON response body.
	Payload []byte

	// Source is where the payload came from.
	Source Source

	// Reason carries the fetch failure kind when Source is SourceStale.
	Reason string
}

// Orchestrator combines the endpoint registry, cache store, and fetcher
// into the resolve/invalidate/list operations exposed to the tool layer.
// All dependencies are injected; the orchestrator owns no background state
// beyond the per-key coalescing slots.
type Orchestrator struct {
	registry *registry.Registry
	store    store.Store
	fetcher  *fetch.Fetcher
	coord    fetch.Coordinator
	logger   zerolog.Logger
}

// New creates an orchestrator over the given registry, store, and fetcher.
func New(reg *registry.Registry, st store.Store, fetcher *fetch.Fetcher) *Orchestrator {
	if reg == nil || st == nil || fetcher == nil {
		panic("orchestrator: registry, store, and fetcher are required")
	}
	return &Orchestrator{
		registry: reg,
		store:    st,
		fetcher:  fetcher,
		logger:   logging.NewLogger("orchestrator"),
	}
}

// Resolve returns the payload for the given endpoint key.
//
// Cache-enabled endpoints are served from the fresh cache when possible;
// otherwise a single coalesced live fetch runs, and on fetch failure a
// stale entry is served if one exists. Cache-disabled endpoints always
// fetch live, store nothing, and have no stale fallback.
//
// Returns an error wrapping ErrUnknownEndpoint for unconfigured keys, or a
// *FetchFailedError when the fetch failed and nothing stale was available.
func (o *Orchestrator) Resolve(ctx context.Context, key string) (*Resolution, error) {
	cfg, err := o.registry.Lookup(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, key)
	}

	if !cfg.CacheEnabled {
		return o.resolveLiveOnly(ctx, cfg)
	}

	storeKey := store.Key(cfg.Key)

	payload, err := o.store.GetFresh(ctx, storeKey)
	if err == nil {
		o.logger.Debug().
			Str("endpoint", cfg.Key).
			Msg("Fresh cache hit")
		resolvesTotal.WithLabelValues(cfg.Key, string(SourceCache)).Inc()
		return &Resolution{Key: cfg.Key, Payload: payload, Source: SourceCache}, nil
	}
	if !errors.Is(err, store.ErrMiss) {
		// Store trouble is not fatal: fall through to a live fetch.
		o.logger.Warn().
			Err(err).
			Str("endpoint", cfg.Key).
			Msg("Cache read failed, fetching live")
	}

	payload, joined, err := o.coord.Fetch(cfg.Key, func() ([]byte, error) {
		return o.fetcher.Get(ctx, cfg.URL)
	})
	if err == nil {
		if joined {
			o.logger.Debug().
				Str("endpoint", cfg.Key).
				Msg("Joined in-flight fetch")
		}
		if serr := o.store.Set(ctx, storeKey, payload, cfg.TTL); serr != nil {
			o.logger.Warn().
				Err(serr).
				Str("endpoint", cfg.Key).
				Msg("Failed to store fetched payload")
		}
		resolvesTotal.WithLabelValues(cfg.Key, string(SourceLive)).Inc()
		return &Resolution{Key: cfg.Key, Payload: payload, Source: SourceLive}, nil
	}

	reason := string(fetch.KindOf(err))
	if reason == "" {
		reason = string(fetch.KindNetwork)
	}

	stale, serr := o.store.GetStale(ctx, storeKey)
	if serr == nil {
		o.logger.Info().
			Str("endpoint", cfg.Key).
			Str("kind", reason).
			Msg("Serving stale payload after fetch failure")
		staleFallbacksTotal.WithLabelValues(cfg.Key, reason).Inc()
		resolvesTotal.WithLabelValues(cfg.Key, string(SourceStale)).Inc()
		return &Resolution{Key: cfg.Key, Payload: stale, Source: SourceStale, Reason: reason}, nil
	}
	if !errors.Is(serr, store.ErrAbsent) {
		o.logger.Warn().
			Err(serr).
			Str("endpoint", cfg.Key).
			Msg("Stale cache read failed")
	}

	o.logger.Error().
		Err(err).
		Str("endpoint", cfg.Key).
		Msg("Resolve failed with nothing to serve")
	resolveFailuresTotal.WithLabelValues(cfg.Key).Inc()
	return nil, &FetchFailedError{Key: cfg.Key, Cause: err}
}

// resolveLiveOnly handles cache-disabled endpoints: fetch, return, store
// nothing.
func (o *Orchestrator) resolveLiveOnly(ctx context.Context, cfg registry.EndpointConfig) (*Resolution, error) {
	payload, _, err := o.coord.Fetch(cfg.Key, func() ([]byte, error) {
		return o.fetcher.Get(ctx, cfg.URL)
	})
	if err != nil {
		o.logger.Error().
			Err(err).
			Str("endpoint", cfg.Key).
			Msg("Live-only fetch failed")
		resolveFailuresTotal.WithLabelValues(cfg.Key).Inc()
		return nil, &FetchFailedError{Key: cfg.Key, Cause: err}
	}
	resolvesTotal.WithLabelValues(cfg.Key, string(SourceLive)).Inc()
	return &Resolution{Key: cfg.Key, Payload: payload, Source: SourceLive}, nil
}

// Invalidate removes any cached entry for the given endpoint key.
//
// The key must be configured; deleting is idempotent and succeeds whether
// or not an entry was cached. Store-internal delete failures are logged
// but not surfaced - invalidation is treated as always available.
func (o *Orchestrator) Invalidate(ctx context.Context, key string) error {
	if _, err := o.registry.Lookup(key); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownEndpoint, key)
	}

	if err := o.store.Delete(ctx, store.Key(key)); err != nil {
		o.logger.Warn().
			Err(err).
			Str("endpoint", key).
			Msg("Cache delete failed during invalidation")
		return nil
	}

	o.logger.Debug().
		Str("endpoint", key).
		Msg("Cache entry invalidated")
	return nil
}

// ListCachedKeys returns the store keys currently holding an entry (fresh
// or stale) under the endpoint namespace, in lexicographic order.
// Store-internal listing failures are logged and yield an empty listing.
func (o *Orchestrator) ListCachedKeys(ctx context.Context) []string {
	keys, err := o.store.ListKeys(ctx, store.Namespace)
	if err != nil {
		o.logger.Warn().
			Err(err).
			Msg("Cache key listing failed")
		return []string{}
	}

	sort.Strings(keys)
	return keys
}
