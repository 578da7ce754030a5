// Package backend is a typed client for the AI/Gmail backend API. All
// analysis, Gmail access and persistence of analyzed emails happen there.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"opsassistant/internal/metrics"

	"github.com/rs/zerolog"
)

// ErrBackendUnavailable is returned when the backend cannot be reached
var ErrBackendUnavailable = errors.New("backend unavailable")

// maxErrorBody bounds how much of a failed response body is kept
const maxErrorBody = 4096

// APIError is a non-2xx response from the backend
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// RejectedError is a 2xx response whose body reports {"status":"error"}
type RejectedError struct {
	Endpoint string
	Message  string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend %s rejected the request", e.Endpoint)
	}
	return fmt.Sprintf("backend %s rejected the request: %s", e.Endpoint, e.Message)
}

// Client talks to the backend over HTTP. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a backend client
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "backend").Logger(),
	}
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call
type request struct {
	method   string
	path     string
	endpoint string // metrics label, defaults to path
	query    url.Values
	body     interface{}
}

// do performs the call and returns the raw response body of a 2xx response
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	endpoint := r.endpoint
	if endpoint == "" {
		endpoint = r.path
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var reader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackendCall(endpoint, 0, start)
		c.logger.Warn().Err(err).Str("method", r.method).Str("endpoint", endpoint).Msg("Backend unreachable")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrBackendUnavailable, r.method, endpoint, err)
	}
	defer resp.Body.Close()
	metrics.ObserveBackendCall(endpoint, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn().
			Str("method", r.method).
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("Backend returned non-2xx response")
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %w", ErrBackendUnavailable, endpoint, err)
	}
	return body, nil
}

// doJSON performs the call and decodes a 2xx response into out
func (c *Client) doJSON(ctx context.Context, r request, out interface{}) error {
	body, err := c.do(ctx, r)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		endpoint := r.endpoint
		if endpoint == "" {
			endpoint = r.path
		}
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
