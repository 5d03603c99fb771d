// Package fetch performs bounded-timeout JSON GETs against configured
// upstream endpoints and coalesces concurrent fetches for the same endpoint
// key into a single outbound request.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/aaryaranjit03/google-mcp-server/pkg/logging"
)

// Prometheus metrics for fetch operations.
var (
	fetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_fetch_requests_total",
		Help: "Total upstream fetches by endpoint path and status",
	}, []string{"endpoint", "status"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mcp_fetch_duration_seconds",
		Help:    "Upstream fetch duration in seconds by endpoint path",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	fetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_fetch_errors_total",
		Help: "Total fetch failures by kind",
	}, []string{"kind"})
)

// DefaultTimeout is the fixed deadline applied to every live fetch,
// regardless of the endpoint's TTL.
const DefaultTimeout = 5 * time.Second

// defaultUserAgent identifies this client to upstreams.
const defaultUserAgent = "google-mcp-server/0.1.0"

// Fetcher performs single bounded-timeout HTTP GETs. Only a 2xx response
// carrying a valid JSON body counts as success; everything else is a typed
// *Error.
type Fetcher struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     zerolog.Logger
}

// NewFetcher creates a fetcher with the given per-request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		httpClient: &http.Client{},
		timeout:    timeout,
		userAgent:  defaultUserAgent,
		logger:     logging.NewLogger("fetcher"),
	}
}

// Timeout returns the fixed per-request deadline.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}

// Get fetches rawURL and returns the JSON payload bytes.
//
// The timeout is a hard deadline measured from request start; on expiry the
// request context is cancelled so the underlying connection is released
// promptly. Exactly one attempt is made - retry is a caller concern.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		fetchErrorsTotal.WithLabelValues(string(KindNetwork)).Inc()
		return nil, &Error{Kind: KindNetwork, URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	endpoint := req.URL.Path
	start := time.Now()
	defer func() {
		fetchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	resp, err := f.httpClient.Do(req)
	if err != nil {
		kind := classify(err)
		fetchErrorsTotal.WithLabelValues(string(kind)).Inc()
		fetchRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		f.logger.Warn().
			Err(err).
			Str("url", rawURL).
			Str("kind", string(kind)).
			Msg("Fetch failed")
		return nil, &Error{Kind: kind, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	fetchRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchErrorsTotal.WithLabelValues(string(KindHTTP)).Inc()
		f.logger.Warn().
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Msg("Fetch returned non-2xx status")
		return nil, &Error{Kind: KindHTTP, URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		kind := classify(err)
		fetchErrorsTotal.WithLabelValues(string(kind)).Inc()
		f.logger.Warn().
			Err(err).
			Str("url", rawURL).
			Str("kind", string(kind)).
			Msg("Failed to read fetch response body")
		return nil, &Error{Kind: kind, URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}

	if !json.Valid(body) {
		fetchErrorsTotal.WithLabelValues(string(KindDecode)).Inc()
		f.logger.Warn().
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Msg("Fetch returned non-JSON body")
		return nil, &Error{Kind: KindDecode, URL: rawURL, StatusCode: resp.StatusCode}
	}

	f.logger.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("Fetch succeeded")
	return body, nil
}
