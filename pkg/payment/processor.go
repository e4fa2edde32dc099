package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-orderwizard/internal/httpx"
)

// ProviderName tags confirmations produced by this processor.
const ProviderName = "stripe"

// Processor implements Adapter over the intent-creation service plus the
// payment SDK. Saved methods confirm server-side; new cards tokenize first.
type Processor struct {
	baseURL string
	sdk     SDK
	http    *httpx.Client
}

var _ Adapter = (*Processor)(nil)

// ProcessorOption customises the processor.
type ProcessorOption func(*Processor)

// WithHTTPOptions forwards options to the underlying JSON client.
func WithHTTPOptions(options ...httpx.Option) ProcessorOption {
	return func(p *Processor) {
		p.http = httpx.New(options...)
	}
}

// NewProcessor constructs a Processor talking to baseURL and confirming
// through sdk.
func NewProcessor(baseURL string, sdk SDK, options ...ProcessorOption) (*Processor, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("payment: base url is required")
	}
	if sdk == nil {
		return nil, errors.New("payment: sdk is required")
	}
	p := &Processor{
		baseURL: trimmed,
		sdk:     sdk,
		http:    httpx.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p, nil
}

type intentRequest struct {
	Amount         int64          `json:"amount"`
	Customer       Customer       `json:"customer"`
	SavedMethodID  string         `json:"savedMethodId,omitempty"`
	Subscriptions  []Subscription `json:"subscriptions,omitempty"`
	IdempotencyKey string         `json:"idempotencyKey"`
}

type intentResponse struct {
	Success         bool   `json:"success"`
	Status          string `json:"status"`
	ClientSecret    string `json:"clientSecret,omitempty"`
	PaymentID       string `json:"paymentId,omitempty"`
	CardBrand       string `json:"cardBrand,omitempty"`
	CardLast4       string `json:"cardLast4,omitempty"`
	CustomerID      string `json:"customerId,omitempty"`
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Confirm implements Adapter.
func (p *Processor) Confirm(ctx context.Context, req Request) (Confirmation, error) {
	if err := validateRequest(req); err != nil {
		return Confirmation{}, err
	}
	if req.SavedMethodID != "" {
		return p.confirmSaved(ctx, req)
	}
	return p.confirmCard(ctx, req)
}

// confirmSaved finalizes directly: the service charges the stored method and
// returns a settled intent.
func (p *Processor) confirmSaved(ctx context.Context, req Request) (Confirmation, error) {
	resp, err := p.createIntent(ctx, req, req.SavedMethodID)
	if err != nil {
		return Confirmation{}, err
	}
	if resp.Status != "succeeded" {
		return Confirmation{}, DeclineError{Message: declineMessage(resp.Error)}
	}
	return Confirmation{
		PaymentID:       resp.PaymentID,
		Provider:        ProviderName,
		CardBrand:       resp.CardBrand,
		CardLast4:       resp.CardLast4,
		CustomerID:      resp.CustomerID,
		PaymentMethodID: req.SavedMethodID,
	}, nil
}

// confirmCard runs the three-legged flow: tokenize with the SDK, create the
// intent, confirm with the SDK, then optionally persist the method.
func (p *Processor) confirmCard(ctx context.Context, req Request) (Confirmation, error) {
	token, err := p.sdk.Tokenize(ctx, *req.Card)
	if err != nil {
		return Confirmation{}, fmt.Errorf("payment: tokenize card: %w", err)
	}

	resp, err := p.createIntent(ctx, req, "")
	if err != nil {
		return Confirmation{}, err
	}
	if resp.ClientSecret == "" {
		return Confirmation{}, DeclineError{Message: declineMessage(resp.Error)}
	}

	confirmation, err := p.sdk.ConfirmIntent(ctx, resp.ClientSecret, token)
	if err != nil {
		return Confirmation{}, fmt.Errorf("payment: confirm intent: %w", err)
	}
	confirmation.Provider = ProviderName
	if confirmation.CustomerID == "" {
		confirmation.CustomerID = resp.CustomerID
	}

	if req.SaveMethod && confirmation.PaymentMethodID != "" {
		// Persisting the method is best-effort; the charge already settled.
		_ = p.saveMethod(ctx, confirmation)
	}
	return confirmation, nil
}

func (p *Processor) createIntent(ctx context.Context, req Request, savedMethodID string) (intentResponse, error) {
	var resp intentResponse
	err := p.http.PostJSON(ctx, p.baseURL+"/payments/intents", intentRequest{
		Amount:         req.AmountCents,
		Customer:       req.Customer,
		SavedMethodID:  savedMethodID,
		Subscriptions:  req.Subscriptions,
		IdempotencyKey: uuid.NewString(),
	}, &resp)
	if err != nil {
		var status httpx.StatusError
		if errors.As(err, &status) && status.Code == 402 {
			return intentResponse{}, DeclineError{Message: declineMessage(status.Body)}
		}
		return intentResponse{}, fmt.Errorf("payment: create intent: %w", err)
	}
	if !resp.Success && resp.Status != "succeeded" && resp.ClientSecret == "" {
		return intentResponse{}, DeclineError{Message: declineMessage(resp.Error)}
	}
	return resp, nil
}

func (p *Processor) saveMethod(ctx context.Context, confirmation Confirmation) error {
	return p.http.PostJSON(ctx, p.baseURL+"/payments/methods", map[string]string{
		"customerId":      confirmation.CustomerID,
		"paymentMethodId": confirmation.PaymentMethodID,
	}, nil)
}

func declineMessage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Your card was declined."
	}
	return raw
}
