// Package client is the Go SDK for the thumbnail statistics service.  It
// covers the statistics, clustering and thumbnail endpoints the dashboard
// consumes; every call is a GET returning an immutable JSON snapshot.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thumblens/thumblens/pkg/errors"
)

const Version = "0.1.0"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to the statistics service.
type Client struct {
	baseURL      string
	staticPrefix string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	observer     RequestObserver

	stats          *StatsClient
	statsOnce      sync.Once
	clustering     *ClusteringClient
	clusteringOnce sync.Once
	thumbnails     *ThumbnailsClient
	thumbnailsOnce sync.Once
}

// RequestObserver is told about every completed round trip.  status is 0
// when the request never produced a response.
type RequestObserver func(endpoint string, status int, took time.Duration)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Endpoint   string `json:"endpoint"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.ErrInvalidConfig
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid baseURL: %v", errors.ErrInvalidConfig, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: baseURL scheme must be http or https", errors.ErrInvalidConfig)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		staticPrefix: "/static/thumbnails/",
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("thumblens-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     0,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// StaticPrefix returns the path thumbnails are served under.
func (c *Client) StaticPrefix() string { return c.staticPrefix }

// Stats returns the statistics sub-client.
func (c *Client) Stats() *StatsClient {
	c.statsOnce.Do(func() {
		c.stats = &StatsClient{client: c}
	})
	return c.stats
}

// Clustering returns the clustering sub-client.
func (c *Client) Clustering() *ClusteringClient {
	c.clusteringOnce.Do(func() {
		c.clustering = &ClusteringClient{client: c}
	})
	return c.clustering
}

// Thumbnails returns the thumbnails sub-client.
func (c *Client) Thumbnails() *ThumbnailsClient {
	c.thumbnailsOnce.Do(func() {
		c.thumbnails = &ThumbnailsClient{client: c}
	})
	return c.thumbnails
}

// do performs a GET against path with query and decodes the body into
// result.  Failed requests are retried only when WithRetryMax allows it.
func (c *Client) do(ctx context.Context, path string, query url.Values, result interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return errors.Transport("request cancelled", ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return errors.Transport("failed to create request", err)
		}

		requestID := uuid.New().String()
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set(RequestIDHeader, requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.observe(path, 0, duration)
			c.logger.Errorf("GET %s failed: %v", path, err)
			lastErr = errors.Transport("request failed", err)
			if ctx.Err() == nil && c.shouldRetry(nil, err) {
				continue
			}
			return lastErr
		}

		c.observe(path, resp.StatusCode, duration)
		c.logger.Debugf("GET %s %d (%v)", path, resp.StatusCode, duration)

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return errors.Transport("failed to read response body", err)
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{
				StatusCode: resp.StatusCode,
				Endpoint:   path,
				RequestID:  requestID,
			}
			if len(respBody) > 0 {
				var errResp struct {
					Detail string `json:"detail"`
				}
				if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Detail != "" {
					apiErr.Detail = errResp.Detail
				} else {
					apiErr.Detail = strings.TrimSpace(string(respBody))
				}
			}

			lastErr = apiErr
			if c.shouldRetry(resp, nil) {
				continue
			}
			return apiErr
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return errors.Decode(fmt.Sprintf("failed to decode %s", path), err)
			}
		}

		return nil
	}

	return lastErr
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.do(ctx, path, query, result)
}

// getRaw returns the undecoded body, for presence-aware joins.
func (c *Client) getRaw(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) observe(endpoint string, status int, took time.Duration) {
	if c.observer != nil {
		c.observer(endpoint, status, took)
	}
}

func (c *Client) shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp != nil && resp.StatusCode >= 500 && resp.StatusCode < 600 {
		return true
	}
	return false
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}

	jitter := time.Duration(0)
	if backoff >= 4 {
		jitter = time.Duration(rand.Int63n(int64(backoff / 4)))
	}
	return backoff + jitter
}

// invalidArg reports a caller mistake caught before any request is sent.
func invalidArg(msg string) error {
	return errors.InvalidParam(msg)
}

// panelQuery encodes the shared panel_only flag.
func panelQuery(panelOnly bool) url.Values {
	q := url.Values{}
	if panelOnly {
		q.Set("panel_only", "true")
	}
	return q
}
