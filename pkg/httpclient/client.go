// Package httpclient wraps the standard HTTP client with logging, metrics
// and response size limits for outbound provider calls.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/metrics"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	// MaxRequestSize is the maximum request body size (5MB)
	MaxRequestSize = 5 * 1024 * 1024
)

// Client wraps the HTTP client with logging and size limits
type Client struct {
	client *http.Client
	logger ectologger.Logger
}

// Config holds HTTP client configuration
type Config struct {
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// DefaultConfig returns default HTTP client configuration
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
}

// NewClient creates a new HTTP client
func NewClient(cfg Config, logger ectologger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int           `json:"status_code"`
	Body        []byte        `json:"-"`
	BodyJSON    any           `json:"body,omitempty"`
	ContentType string        `json:"content_type"`
	Duration    time.Duration `json:"duration_ms"`
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// Do executes an HTTP request and returns the response
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	start := time.Now()

	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("HTTP request failed: %s %s", req.Method, req.URL.String())
		metrics.ProviderRequestsTotal.WithLabelValues(req.URL.Host, "error").Inc()
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.ContentLength > MaxResponseSize {
		return nil, fmt.Errorf("response too large: %d bytes (max %d)", resp.ContentLength, MaxResponseSize)
	}

	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response body too large: %d bytes (max %d)", len(body), MaxResponseSize)
	}

	response := &Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		Duration:    duration,
	}

	metrics.ProviderRequestsTotal.WithLabelValues(req.URL.Host, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.ProviderRequestDuration.WithLabelValues(req.URL.Host).Observe(duration.Seconds())

	c.logger.WithContext(ctx).Debugf("HTTP %s %s -> %d (%s)",
		req.Method, req.URL.String(), resp.StatusCode, duration)

	return response, nil
}

// Get performs a GET request with optional query params and headers
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) (*Response, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if len(params) > 0 {
		query := parsed.Query()
		for key, values := range params {
			for _, v := range values {
				query.Add(key, v)
			}
		}
		parsed.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.Do(ctx, req)
}

// PostJSON performs a POST request with a JSON body
func (c *Client) PostJSON(ctx context.Context, rawURL string, body any, headers map[string]string) (*Response, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}
	if len(bodyBytes) > MaxRequestSize {
		return nil, fmt.Errorf("request body too large: %d bytes (max %d)", len(bodyBytes), MaxRequestSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.Do(ctx, req)
}
