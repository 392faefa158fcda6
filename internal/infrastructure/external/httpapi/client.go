// Package httpapi implements the shared HTTP client used by all platform
// collectors and the username verifier. It wraps net/http with the
// protections an unofficial API consumer needs: token-bucket rate limiting,
// a circuit breaker, and bounded retries with backoff.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/coderank-hub/coderank/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// UserAgent is sent on every request. Several platforms reject the default
// Go user agent outright.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ClientConfig contains configuration for a platform HTTP client.
type ClientConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// FollowRedirects controls redirect handling. The username verifier
	// disables it to detect profile-to-homepage redirects.
	FollowRedirects bool

	// RateLimiterConfig for request pacing.
	RateLimiterConfig RateLimiterConfig

	// CircuitBreakerConfig for fault tolerance.
	CircuitBreakerConfig CircuitBreakerConfig

	// MaxRetries is the number of retries on transient failures.
	MaxRetries int

	// RetryBaseDelay is the initial backoff between retries.
	RetryBaseDelay time.Duration

	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables request-level debug logging.
	Debug bool
}

// DefaultClientConfig returns sensible defaults for an unofficial API client.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:              30 * time.Second,
		FollowRedirects:      true,
		RateLimiterConfig:    DefaultRateLimiterConfig(),
		CircuitBreakerConfig: DefaultCircuitBreakerConfig(),
		MaxRetries:           3,
		RetryBaseDelay:       500 * time.Millisecond,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// URL is the requested URL.
	URL string

	// Body is the response body, useful for platform-specific error
	// sniffing.
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("httpapi: %s returned status %d", e.URL, e.Code)
}

// IsClientError reports whether err is a StatusError with a 404 or 400
// status. The collectors treat these as "the handle does not exist".
func IsClientError(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.Code == http.StatusNotFound || statusErr.Code == http.StatusBadRequest
}

// StatusCode extracts the HTTP status from err, or 0 if it is not a
// StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Response is the outcome of a single HTTP GET.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Client is the shared GET-only HTTP client.
type Client struct {
	config         ClientConfig
	httpClient     *http.Client
	logger         *slog.Logger
	rateLimiter    *RateLimiter
	circuitBreaker *CircuitBreaker
	retrier        *retry.Retrier
}

// NewClient creates a new client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	httpClient := &http.Client{Timeout: config.Timeout}
	if !config.FollowRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	logger := config.Logger
	retrier := retry.PlatformRetrier(
		retry.WithMaxAttempts(config.MaxRetries+1),
		retry.WithInitialDelay(config.RetryBaseDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Warn("retrying request", "attempt", attempt, "delay", delay.String(), "error", err)
		}),
	)

	return &Client{
		config:         config,
		httpClient:     httpClient,
		logger:         config.Logger,
		rateLimiter:    NewRateLimiter(config.RateLimiterConfig),
		circuitBreaker: NewCircuitBreaker(config.CircuitBreakerConfig),
		retrier:        retrier,
	}
}

// Get performs a rate-limited, retried GET and returns the raw response.
// Any HTTP response, including 4xx and 5xx, is returned without error;
// transport failures and an open circuit produce errors.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	if err := c.circuitBreaker.Allow(); err != nil {
		return nil, fmt.Errorf("circuit breaker: %w", err)
	}

	var resp *Response
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		if err := c.rateLimiter.Allow(ctx); err != nil {
			return retry.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		r, err := c.doSingleGet(ctx, rawURL)
		if err != nil {
			return retry.Retryable(err)
		}

		// Retry server-side throttling and failures; everything else is
		// an answer the caller wants to see.
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			return retry.Retryable(&StatusError{Code: r.StatusCode, URL: rawURL, Body: r.Body})
		}

		resp = r
		return nil
	})

	if err != nil {
		c.circuitBreaker.RecordFailure()
		return nil, err
	}

	c.circuitBreaker.RecordSuccess()
	return resp, nil
}

// GetJSON performs a GET and unmarshals a 2xx response into result.
// Non-2xx statuses yield a *StatusError carrying the body.
func (c *Client) GetJSON(ctx context.Context, rawURL string, result interface{}) error {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, URL: rawURL, Body: resp.Body}
	}

	if result != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("httpapi: unmarshal %s: %w", rawURL, err)
		}
	}

	return nil
}

// doSingleGet performs one HTTP GET without retries.
func (c *Client) doSingleGet(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json, text/html")

	if c.config.Debug {
		c.logger.Debug("http request", "url", rawURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// A 429 should also slow the bucket down.
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 60 * time.Second
		c.rateLimiter.RecordRateLimitHit(retryAfter)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, nil
}

// Reset resets the rate limiter and circuit breaker.
func (c *Client) Reset() {
	c.rateLimiter.Reset()
	c.circuitBreaker.Reset()
}
