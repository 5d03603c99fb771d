// Package metrics provides centralized Prometheus metrics documentation for
// the endpoint cache. All metrics are defined in their respective packages
// (store, fetch, orchestrator) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the endpoint cache.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/store):
//   - mcp_cache_hits_total{backend} (Counter): Fresh cache hits by backend
//   - mcp_cache_misses_total{backend} (Counter): Fresh-path cache misses by backend
//   - mcp_cache_stale_hits_total{backend} (Counter): Stale reads that found an entry
//   - mcp_cache_errors_total{backend, operation} (Counter): Cache operation errors
//
// Fetch Metrics (pkg/fetch):
//   - mcp_fetch_requests_total{endpoint, status} (Counter): Upstream fetches by path and HTTP status
//   - mcp_fetch_duration_seconds{endpoint} (Histogram): Upstream fetch duration by path
//   - mcp_fetch_errors_total{kind} (Counter): Fetch failures by kind (http, timeout, network, decode)
//   - mcp_fetch_coalesced_total (Counter): Fetch calls that joined an already in-flight fetch
//
// Resolve Metrics (pkg/orchestrator):
//   - mcp_resolves_total{endpoint, source} (Counter): Resolves by payload source (cache, live, stale)
//   - mcp_resolve_failures_total{endpoint} (Counter): Resolves that failed with nothing to serve
//   - mcp_stale_fallbacks_total{endpoint, reason} (Counter): Stale responses by fetch failure kind
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(mcp_cache_hits_total[5m])) /
//   (sum(rate(mcp_cache_hits_total[5m])) + sum(rate(mcp_cache_misses_total[5m])))
//
//   # Stale Fallback Rate (upstream health signal)
//   sum(rate(mcp_stale_fallbacks_total[5m])) by (endpoint)
//
//   # P95 Fetch Latency
//   histogram_quantile(0.95, rate(mcp_fetch_duration_seconds_bucket[5m]))
//
//   # Coalescing Effectiveness
//   rate(mcp_fetch_coalesced_total[5m]) / rate(mcp_resolves_total{source="live"}[5m])
