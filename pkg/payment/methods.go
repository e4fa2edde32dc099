package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-orderwizard/internal/httpx"
)

// SavedMethod is a stored payment method usable without re-entering card
// details.
type SavedMethod struct {
	ID        string `json:"id"`
	CardBrand string `json:"cardBrand"`
	CardLast4 string `json:"cardLast4"`
	ExpMonth  int    `json:"expMonth"`
	ExpYear   int    `json:"expYear"`
	Default   bool   `json:"default"`
}

// MethodSource lists the saved methods scoped to the authenticated customer.
// A failed fetch degrades to an empty list upstream; it never blocks the
// payment step.
type MethodSource interface {
	SavedMethods(ctx context.Context, customerID string) ([]SavedMethod, error)
}

// MethodsClient implements MethodSource over the payment service.
type MethodsClient struct {
	baseURL string
	http    *httpx.Client
}

var _ MethodSource = (*MethodsClient)(nil)

// NewMethodsClient constructs a MethodsClient rooted at baseURL. The token
// scopes requests to the authenticated session.
func NewMethodsClient(baseURL, token string) (*MethodsClient, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("payment: base url is required")
	}
	options := []httpx.Option{}
	if token != "" {
		options = append(options, httpx.WithHeader("Authorization", "Bearer "+token))
	}
	return &MethodsClient{
		baseURL: trimmed,
		http:    httpx.New(options...),
	}, nil
}

type savedMethodsResponse struct {
	Data []SavedMethod `json:"data"`
}

// SavedMethods implements MethodSource.
func (c *MethodsClient) SavedMethods(ctx context.Context, customerID string) ([]SavedMethod, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, errors.New("payment: customer id is required")
	}
	var resp savedMethodsResponse
	url := c.baseURL + "/payments/methods?customerId=" + customerID
	if err := c.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("payment: list saved methods: %w", err)
	}
	if resp.Data == nil {
		return []SavedMethod{}, nil
	}
	return resp.Data, nil
}
