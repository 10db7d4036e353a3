// Package backend is the REST client for the remote storefront API. It is
// the only place that knows the wire envelope; callers receive domain
// values and sentinel errors.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for authenticated calls.
// session.Store satisfies it.
type TokenSource interface {
	Token() string
}

// Client talks to the remote storefront backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a Client for the given base URL (e.g. "https://host/api").
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logger.With("component", "backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a request and decodes the standard envelope. A success:false
// envelope and a non-2xx status are the same failure path.
func (c *Client) do(ctx context.Context, method, path string, body any, auth bool) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		token := c.tokens.Token()
		if token == "" {
			return nil, ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.DebugContext(ctx, "Unparseable response body", "status", resp.StatusCode, "error", err)
		return nil, fmt.Errorf("invalid response from server: %w", err)
	}

	if err := classify(resp.StatusCode, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// doRaw issues a request and returns the raw body for endpoints that do not
// use the standard envelope shape (product listings).
func (c *Client) doRaw(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode}
	}
	return raw, nil
}

// classify maps a status code and envelope onto the error taxonomy.
func classify(status int, env *envelope) error {
	conflictMessage := strings.Contains(strings.ToLower(env.Message), "already")

	if status < 200 || status > 299 {
		switch {
		case status == http.StatusUnauthorized:
			return ErrUnauthenticated
		case status == http.StatusConflict || conflictMessage:
			return fmt.Errorf("%w: %s", ErrConflict, env.Message)
		case status == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, env.Message)
		default:
			return &APIError{Status: status, Message: env.Message}
		}
	}
	if !env.Success {
		if conflictMessage {
			return fmt.Errorf("%w: %s", ErrConflict, env.Message)
		}
		return &APIError{Status: status, Message: env.Message}
	}
	return nil
}

// IsConflict reports whether err is the duplicate-item failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
