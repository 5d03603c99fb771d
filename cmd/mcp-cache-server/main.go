package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aaryaranjit03/google-mcp-server/pkg/fetch"
	"github.com/aaryaranjit03/google-mcp-server/pkg/logging"
	"github.com/aaryaranjit03/google-mcp-server/pkg/orchestrator"
	"github.com/aaryaranjit03/google-mcp-server/pkg/registry"
	"github.com/aaryaranjit03/google-mcp-server/pkg/store"
	"github.com/aaryaranjit03/google-mcp-server/pkg/tools"
)

func main() {
	// Configuration from environment
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	configPath := getEnv("MCP_CONFIG_PATH", "mcp_endpoints.json")
	logLevel := getEnv("MCP_LOG_LEVEL", string(logging.LevelInfo))

	logging.Setup(logging.Config{Level: logging.LogLevel(logLevel)})

	fetchTimeout := fetch.DefaultTimeout
	if raw := os.Getenv("MCP_FETCH_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Invalid MCP_FETCH_TIMEOUT %q: %v", raw, err)
		}
		fetchTimeout = d
	}

	// Load endpoint configuration
	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Fatalf("Failed to read endpoint config %s: %v", configPath, err)
	}
	endpoints, err := registry.ParseConfig(data)
	if err != nil {
		log.Fatalf("Failed to parse endpoint config: %v", err)
	}
	reg, err := registry.New(endpoints)
	if err != nil {
		log.Fatalf("Invalid endpoint config: %v", err)
	}
	log.Printf("Loaded %d endpoints from %s", reg.Len(), configPath)

	// Setup Redis
	redisClient, err := newRedisClient(redisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL %q: %v", redisURL, err)
	}

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Printf("Connected to Redis at %s", redisURL)

	orch := orchestrator.New(reg, store.NewRedisStore(redisClient), fetch.NewFetcher(fetchTimeout))
	svc := tools.NewService(orch)

	// HTTP Server
	mux := http.NewServeMux()
	mux.HandleFunc("/tools/get_endpoint_info", getEndpointInfoHandler(svc))
	mux.HandleFunc("/tools/invalidate_cache", invalidateCacheHandler(svc))
	mux.HandleFunc("/tools/list_cached_keys", listCachedKeysHandler(svc))
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(redisClient))
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":" + port
	log.Printf("Starting cache server on %s (fetch timeout %s)", addr, fetchTimeout)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newRedisClient accepts both bare host:port addresses and redis:// URLs.
func newRedisClient(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "Redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

func getEndpointInfoHandler(svc *tools.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("endpoint_key")
		if key == "" {
			writeJSON(w, http.StatusBadRequest, &tools.Error{
				Code:   tools.CodeUnknownEndpoint,
				Detail: "missing endpoint_key parameter",
			})
			return
		}

		info, err := svc.GetEndpointInfo(r.Context(), key)
		if err != nil {
			writeToolError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func invalidateCacheHandler(svc *tools.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Invalidation mutates cache state; only POST is accepted.
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		key := r.URL.Query().Get("endpoint_key")
		if key == "" {
			writeJSON(w, http.StatusBadRequest, &tools.Error{
				Code:   tools.CodeUnknownEndpoint,
				Detail: "missing endpoint_key parameter",
			})
			return
		}

		ack, err := svc.InvalidateCache(r.Context(), key)
		if err != nil {
			writeToolError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ack)
	}
}

func listCachedKeysHandler(svc *tools.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.ListCachedKeys(r.Context()))
	}
}

// writeToolError maps tool error codes onto HTTP status codes.
func writeToolError(w http.ResponseWriter, err error) {
	var toolErr *tools.Error
	if !errors.As(err, &toolErr) {
		toolErr = &tools.Error{Code: tools.CodeFetchFailed, Detail: err.Error()}
	}

	status := http.StatusInternalServerError
	switch toolErr.Code {
	case tools.CodeUnknownEndpoint:
		status = http.StatusNotFound
	case tools.CodeFetchFailed:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, toolErr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
