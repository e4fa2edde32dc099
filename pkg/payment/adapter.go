// Package payment wraps the third-party payment SDK and the intent-creation
// service behind one adapter: collect a card or reuse a saved method, confirm
// the charge, and report a confirmation the wizard's payment step consumes.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Card carries fresh card details destined for the SDK. The raw number never
// reaches the intent service; only the SDK token does.
type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

// Customer identifies the payer on intent-creation requests.
type Customer struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
}

// Subscription describes an add-on that starts billing after checkout. It is
// forwarded on the intent so the provider can schedule it; it never joins the
// immediate charge.
type Subscription struct {
	Key         string `json:"key"`
	AmountCents int64  `json:"amount"`
	Interval    string `json:"interval"`
}

// Request describes a single checkout attempt. Exactly one of SavedMethodID
// and Card must be set.
type Request struct {
	AmountCents   int64
	Customer      Customer
	SavedMethodID string
	Card          *Card
	SaveMethod    bool
	Subscriptions []Subscription
}

// Confirmation is the successful outcome consumed by the confirmation step.
type Confirmation struct {
	PaymentID       string `json:"paymentId"`
	Provider        string `json:"provider"`
	CardBrand       string `json:"cardBrand,omitempty"`
	CardLast4       string `json:"cardLast4,omitempty"`
	CustomerID      string `json:"customerId,omitempty"`
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
}

// Adapter runs a checkout attempt to completion.
type Adapter interface {
	Confirm(ctx context.Context, req Request) (Confirmation, error)
}

// DeclineError is a card decline or SDK validation failure. It renders as a
// field-level error on the payment step; the customer may retry.
type DeclineError struct {
	Message string
}

func (e DeclineError) Error() string { return e.Message }

// ErrIncompleteRequest reports a request with neither a saved method nor card
// details.
var ErrIncompleteRequest = errors.New("payment: saved method or card details required")

// DisplayError flattens any adapter failure into the string shown on the
// payment step. Declines pass through verbatim; everything else gets a retry
// prompt so internals never leak to the form.
func DisplayError(err error) string {
	if err == nil {
		return ""
	}
	var decline DeclineError
	if errors.As(err, &decline) {
		return decline.Message
	}
	return "Payment could not be completed. Please try again."
}

// SDK is the seam over the third-party payment library: tokenize card
// details, then confirm a server-created intent.
type SDK interface {
	Tokenize(ctx context.Context, card Card) (string, error)
	ConfirmIntent(ctx context.Context, clientSecret, cardToken string) (Confirmation, error)
}

func validateRequest(req Request) error {
	if req.AmountCents < 0 {
		return fmt.Errorf("payment: negative amount %d", req.AmountCents)
	}
	if strings.TrimSpace(req.SavedMethodID) == "" && req.Card == nil {
		return ErrIncompleteRequest
	}
	return nil
}
