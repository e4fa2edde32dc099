package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-orderwizard/internal/httpx"
)

// Client fetches state fees from the pricing service's `state-fees` endpoint
// and caches the table after the first successful read.
type Client struct {
	baseURL string
	http    *httpx.Client

	mu     sync.Mutex
	cached []StateFee
}

var _ FeeSource = (*Client)(nil)

// ClientOption customises the pricing client.
type ClientOption func(*Client)

// WithHTTPOptions forwards options to the underlying JSON client.
func WithHTTPOptions(options ...httpx.Option) ClientOption {
	return func(c *Client) {
		c.http = httpx.New(options...)
	}
}

// NewClient constructs a Client rooted at baseURL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("pricing: base url is required")
	}
	c := &Client{
		baseURL: trimmed,
		http:    httpx.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

type stateFeesResponse struct {
	Data []StateFee `json:"data"`
}

// StateFees implements FeeSource.
func (c *Client) StateFees(ctx context.Context) ([]StateFee, error) {
	c.mu.Lock()
	cached := c.cached
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var resp stateFeesResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/state-fees", &resp); err != nil {
		return nil, fmt.Errorf("pricing: fetch state fees: %w", err)
	}

	fees := make([]StateFee, 0, len(resp.Data))
	for _, fee := range resp.Data {
		fee.StateCode = strings.ToUpper(strings.TrimSpace(fee.StateCode))
		if fee.StateCode == "" {
			continue
		}
		fees = append(fees, fee)
	}

	c.mu.Lock()
	c.cached = fees
	c.mu.Unlock()
	return fees, nil
}

// StateFee implements FeeSource.
func (c *Client) StateFee(ctx context.Context, stateCode string) (StateFee, error) {
	fees, err := c.StateFees(ctx)
	if err != nil {
		return StateFee{}, err
	}
	code := strings.ToUpper(strings.TrimSpace(stateCode))
	for _, fee := range fees {
		if fee.StateCode == code {
			return fee, nil
		}
	}
	return StateFee{}, ErrUnknownState
}
