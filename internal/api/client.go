// Package api is a typed client for the expense-tracker REST backend.
//
// Every service method maps to exactly one HTTP request. The client attaches
// the current bearer token to all requests except login and register, and it
// never caches, retries, or translates backend errors: failures surface to
// the caller as transport errors or *APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "spendbook/internal/log"
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// APIError is a non-2xx response from the backend, body included verbatim
// so callers can log exactly what the server said.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Body)
}

// IsAuthError reports whether err is a 401/403 from the backend.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Client wraps the backend base URL and carries the four resource services.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	log     *slog.Logger

	Auth       *AuthService
	Expenses   *ExpenseService
	Categories *CategoryService
	Analytics  *AnalyticsService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// NewClient builds a client for the backend at baseURL. A nil tokens source
// yields an unauthenticated client (login and register still work).
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		log:     applog.WithComponent(slog.Default(), "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Auth = &AuthService{c: c}
	c.Expenses = &ExpenseService{c: c}
	c.Categories = &CategoryService{c: c}
	c.Analytics = &AnalyticsService{c: c}
	return c
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out (skipped when out is nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, reader, contentType, out)
}

// doForm issues a form-encoded POST, used only by the login endpoint.
func (c *Client) doForm(ctx context.Context, path string, form url.Values, out any) error {
	reader := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, nil, reader, "application/x-www-form-urlencoded", out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	requestID := uuid.NewString()
	start := time.Now()
	c.log.DebugContext(ctx, "API request",
		"request_id", requestID,
		"method", method,
		"path", path)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "API request failed",
			"request_id", requestID,
			"method", method,
			"path", path,
			"error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.log.DebugContext(ctx, "API response",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", method, path, &APIError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		})
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// setNonEmpty adds key=value only when value carries actual content. Blank
// filter fields must be absent from the query string, not sent empty, so the
// backend applies its no-filter semantics.
func setNonEmpty(v url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		v.Set(key, value)
	}
}
