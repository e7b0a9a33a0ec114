// Package httpclient provides the upstream HTTP client shared by every museum source:
// identifying headers, per-request timeout, client-side rate limiting and mapping of
// non-2xx answers onto the upstream error taxonomy. Retry policy lives in resilience.Retrier.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/rate"
)

// DefaultUserAgent identifica al agregador frente a los upstreams.
const DefaultUserAgent = "curatorx/1.0"

// Client es el cliente HTTP de un upstream concreto.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout bounds a single request (connection + body).
	// Default: 15 seconds
	Timeout time.Duration

	// UserAgent is the User-Agent header value.
	UserAgent string

	// Headers are sent on every request (From, X-Client, ...).
	Headers map[string]string

	// RateLimit is the maximum requests per second; 0 disables limiting.
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	// Default: 1
	RateLimitBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:        15 * time.Second,
		UserAgent:      DefaultUserAgent,
		RateLimitBurst: 1,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.RateLimitBurst <= 0 {
		config.RateLimitBurst = 1
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: limiter,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}
}

// Request performs a single rate-limited HTTP request.
// Non-2xx answers are returned as responses; callers map them with CheckStatus.
func (c *Client) Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait failed")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "build request %s %s: %v", method, url, err)
	}
	c.setHeaders(req, headers)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Debug("http request failed",
			"method", method,
			"url", url,
			"error", err.Error(),
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, errors.Wrapf(err, "%s %s", method, url)
	}

	c.logger.Debug("http response",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, url, nil, headers)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodPost, url, body, headers)
}

// GetJSON performs a GET and decodes a 2xx JSON answer into target.
// Non-2xx answers yield a *errors.StatusError.
//
// Example:
//
//	var out searchResponse
//	if err := client.GetJSON(ctx, u, nil, &out); err != nil {
//	    return nil, errors.Wrap(err, "met search")
//	}
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, target interface{}) error {
	h := map[string]string{"Accept": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	resp, err := c.Get(ctx, url, h)
	if err != nil {
		return err
	}
	return decode(resp, url, target)
}

// PostJSON serializes payload as the JSON body of a POST and decodes the answer into target.
// A nil target discards the body.
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}, headers map[string]string, target interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "encode payload: %v", err)
	}

	h := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for k, v := range headers {
		h[k] = v
	}
	resp, err := c.Post(ctx, url, body, h)
	if err != nil {
		return err
	}
	return decode(resp, url, target)
}

func (c *Client) setHeaders(req *http.Request, headers map[string]string) {
	req.Header.Set("User-Agent", c.config.UserAgent)
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

func decode(resp *http.Response, url string, target interface{}) error {
	defer resp.Body.Close()

	if err := CheckStatus(resp); err != nil {
		drain(resp)
		return err
	}
	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrapf(errors.ErrInvalidResponse, "decode %s: %v", url, err)
	}
	return nil
}

// drain descarta un resto acotado del body para reutilizar la conexión.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

// CheckStatus returns nil for 2xx answers and a *errors.StatusError otherwise.
// The StatusError unwraps to ErrUpstreamNotFound, ErrUpstreamAuthFailed or
// ErrUpstreamUnavailable depending on the code.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.Wrap(errors.ErrInvalidResponse, "response is nil")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	u := ""
	if resp.Request != nil && resp.Request.URL != nil {
		u = resp.Request.URL.String()
	}
	return &errors.StatusError{StatusCode: resp.StatusCode, URL: u}
}
