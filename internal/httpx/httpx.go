// Package httpx holds the small JSON-over-HTTP plumbing shared by the pricing,
// payment, and account clients.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds requests made with a client that does not carry its
// own timeout. A stalled upstream should surface as an error, not an
// indefinite spinner.
const DefaultTimeout = 15 * time.Second

// Client wraps an *http.Client with JSON encode/decode helpers.
type Client struct {
	http    *http.Client
	timeout time.Duration
	header  http.Header
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient injects a pre-configured http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			clone := *client
			c.http = &clone
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHeader sets a header on every request, typically an Authorization
// bearer token.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if key == "" {
			return
		}
		if c.header == nil {
			c.header = make(http.Header)
		}
		c.header.Set(key, value)
	}
}

// New constructs a Client with defaults applied.
func New(options ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// GetJSON issues a GET and decodes a JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.do(ctx, http.MethodGet, url, nil, out)
}

// PostJSON issues a POST with a JSON-encoded payload and decodes the response
// into out. Pass a nil out to discard the body.
func (c *Client) PostJSON(ctx context.Context, url string, payload, out any) error {
	return c.do(ctx, http.MethodPost, url, payload, out)
}

// PatchJSON issues a PATCH with a JSON-encoded payload.
func (c *Client) PatchJSON(ctx context.Context, url string, payload, out any) error {
	return c.do(ctx, http.MethodPatch, url, payload, out)
}

// StatusError reports a non-2xx upstream response, preserving the decoded
// error body when one was present.
type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("httpx: unexpected status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("httpx: unexpected status %d", e.Code)
}

func (c *Client) do(ctx context.Context, method, url string, payload, out any) error {
	if ctx == nil {
		return errors.New("httpx: context is required")
	}
	if url == "" {
		return errors.New("httpx: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("httpx: encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("httpx: decode response: %w", err)
	}
	return nil
}
