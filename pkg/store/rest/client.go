package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Doer executes an HTTP request. Satisfied by *http.Client; tests and the
// caching decorator provide their own implementations.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPError is returned for non-2xx responses. The raw body is kept so callers
// can inspect structured backend error payloads.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client is a minimal JSON-over-HTTP client shared by all metric providers.
// It shapes requests and decodes responses; authentication material is applied
// as opaque headers or query values and never inspected.
type Client struct {
	doer    Doer
	baseURL string
	headers http.Header
	query   url.Values
	timeout time.Duration
}

type Option func(*Client)

// WithDoer replaces the underlying transport. Used to inject the caching
// decorator and test stubs.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithHeader adds a header to every request, e.g. a bearer token.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

// WithQuery adds a query parameter to every request, e.g. an access token.
func WithQuery(key, value string) Option {
	return func(c *Client) { c.query.Set(key, value) }
}

// WithTimeout bounds each call. Zero disables the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		doer:    http.DefaultClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		headers: http.Header{},
		query:   url.Values{},
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON performs a GET against path and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

// PostJSON performs a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.call(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid request path %q: %w", path, err)
	}

	merged := u.Query()
	for key, values := range c.query {
		merged[key] = values
	}
	for key, values := range query {
		merged[key] = values
	}
	u.RawQuery = merged.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", u.Host, err)
	}
	defer resp.Body.Close()

	zerolog.Ctx(ctx).Debug().
		Str("method", method).
		Str("url", u.Redacted()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: data}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
