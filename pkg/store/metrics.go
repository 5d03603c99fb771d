package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh cache hits by backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_hits_total",
			Help: "Total number of fresh cache hits",
		},
		[]string{"backend"}, // "memory", "redis"
	)

	// CacheMisses tracks fresh-path cache misses
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_misses_total",
			Help: "Total number of cache misses on the fresh path",
		},
		[]string{"backend"},
	)

	// StaleHits tracks expired entries served through the stale path
	StaleHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_stale_hits_total",
			Help: "Total number of stale cache reads that found an entry",
		},
		[]string{"backend"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"backend", "operation"}, // "get", "set", "delete", "list"
	)
)
