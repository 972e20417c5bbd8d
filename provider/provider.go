package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mkrv/querybox/cache"
	"github.com/mkrv/querybox/metrics"
)

// APIError is the capability-level failure: the lookup itself went wrong,
// as opposed to a field merely being absent from a valid response.
type APIError struct {
	Provider string
	Endpoint string
	Status   int
	Err      error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Provider, e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Endpoint, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Options configures the shared client core.
type Options struct {
	BaseURL    string
	AuthHeader string // full Authorization header value
	Timeout    time.Duration
	Cache      cache.Store        // nil disables caching
	CacheTTL   time.Duration
	Metrics    *metrics.Recorder // nil disables metrics
	Logger     *zap.Logger
}

// client is the transport shared by both providers: one GET helper with
// cache-aside, metrics and the {"data": ...} envelope handled by callers.
type client struct {
	name       string
	baseURL    string
	authHeader string
	http       *http.Client
	cache      cache.Store
	cacheTTL   time.Duration
	metrics    *metrics.Recorder
	log        *zap.Logger
}

func newClient(name string, opts Options) *client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &client{
		name:       name,
		baseURL:    opts.BaseURL,
		authHeader: opts.AuthHeader,
		http:       &http.Client{Timeout: timeout},
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		metrics:    opts.Metrics,
		log:        log,
	}
}

// getJSON performs a GET against endpoint with the given query and
// decodes the response body into out.
func (c *client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	full := c.baseURL + endpoint
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	if c.cache != nil {
		if body, err := c.cache.Get(ctx, c.name+":"+full); err == nil {
			if err := json.Unmarshal(body, out); err == nil {
				return nil
			}
			// A corrupt entry falls through to a fresh fetch.
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return &APIError{Provider: c.name, Endpoint: endpoint, Err: err}
	}
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(endpoint, "transport_error")
		return &APIError{Provider: c.name, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.record(endpoint, strconv.Itoa(resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Provider: c.name, Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("provider request failed",
			zap.String("provider", c.name),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return &APIError{Provider: c.name, Endpoint: endpoint, Status: resp.StatusCode}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Provider: c.name, Endpoint: endpoint, Err: fmt.Errorf("malformed payload: %w", err)}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, c.name+":"+full, body, c.cacheTTL); err != nil {
			c.log.Debug("cache set failed", zap.Error(err))
		}
	}
	return nil
}

func (c *client) record(endpoint, status string) {
	if c.metrics != nil {
		c.metrics.RecordProviderRequest(c.name, endpoint, status)
	}
}
