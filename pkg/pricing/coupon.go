package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-orderwizard/internal/httpx"
	"github.com/goliatone/go-orderwizard/pkg/draft"
)

// CouponResult is the outcome of validating a code against the base formation
// fee. Reason is set when the coupon was rejected.
type CouponResult struct {
	Valid         bool   `json:"valid"`
	Code          string `json:"code,omitempty"`
	DiscountCents int64  `json:"discountAmount,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// CouponValidator checks a coupon code. Discounts apply only to the base
// formation fee, never to state fees or recurring add-ons.
type CouponValidator interface {
	ValidateCoupon(ctx context.Context, code string, baseCents int64) (CouponResult, error)
}

// ErrCouponAlreadyApplied reports a re-apply attempt while another coupon is
// still set; the customer must remove it first.
var ErrCouponAlreadyApplied = errors.New("pricing: remove the applied coupon first")

// ApplyCouponResult folds a validated coupon into the draft. Invalid results
// pass through unchanged so callers can surface Reason inline.
func ApplyCouponResult(d draft.OrderDraft, res CouponResult) (draft.OrderDraft, error) {
	if d.CouponCode != "" {
		return d, ErrCouponAlreadyApplied
	}
	if !res.Valid {
		return d, nil
	}
	return draft.Apply(d, draft.ApplyCoupon{Code: res.Code, DiscountCents: res.DiscountCents}), nil
}

// CouponClient validates codes against the coupon service.
type CouponClient struct {
	baseURL    string
	serviceKey string
	http       *httpx.Client
}

var _ CouponValidator = (*CouponClient)(nil)

// CouponOption customises the coupon client.
type CouponOption func(*CouponClient)

// WithServiceKey tags validation requests with the product the coupon must
// apply to.
func WithServiceKey(key string) CouponOption {
	return func(c *CouponClient) {
		c.serviceKey = strings.TrimSpace(key)
	}
}

// WithCouponHTTPOptions forwards options to the underlying JSON client.
func WithCouponHTTPOptions(options ...httpx.Option) CouponOption {
	return func(c *CouponClient) {
		c.http = httpx.New(options...)
	}
}

// NewCouponClient constructs a CouponClient rooted at baseURL.
func NewCouponClient(baseURL string, options ...CouponOption) (*CouponClient, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("pricing: base url is required")
	}
	c := &CouponClient{
		baseURL:    trimmed,
		serviceKey: "llc-formation",
		http:       httpx.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

type couponRequest struct {
	Code       string `json:"code"`
	OrderTotal int64  `json:"orderTotal"`
	ServiceKey string `json:"serviceKey"`
}

type couponResponse struct {
	Success bool `json:"success"`
	Coupon  *struct {
		Code           string `json:"code"`
		DiscountAmount int64  `json:"discountAmount"`
	} `json:"coupon,omitempty"`
	Error string `json:"error,omitempty"`
}

// ValidateCoupon implements CouponValidator. The returned discount is clamped
// to the base fee; network failures propagate so callers can degrade quietly.
func (c *CouponClient) ValidateCoupon(ctx context.Context, code string, baseCents int64) (CouponResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return CouponResult{Reason: "Enter a coupon code"}, nil
	}

	var resp couponResponse
	err := c.http.PostJSON(ctx, c.baseURL+"/coupons/validate", couponRequest{
		Code:       code,
		OrderTotal: baseCents,
		ServiceKey: c.serviceKey,
	}, &resp)
	if err != nil {
		return CouponResult{}, fmt.Errorf("pricing: validate coupon: %w", err)
	}

	if !resp.Success || resp.Coupon == nil {
		reason := resp.Error
		if reason == "" {
			reason = "Coupon is not valid"
		}
		return CouponResult{Reason: reason}, nil
	}

	discount := resp.Coupon.DiscountAmount
	if discount > baseCents {
		discount = baseCents
	}
	if discount < 0 {
		discount = 0
	}
	return CouponResult{
		Valid:         true,
		Code:          resp.Coupon.Code,
		DiscountCents: discount,
	}, nil
}

// StaticCoupons is an in-memory CouponValidator keyed by upper-cased code.
// Values are discount cents.
type StaticCoupons map[string]int64

// ValidateCoupon implements CouponValidator.
func (s StaticCoupons) ValidateCoupon(_ context.Context, code string, baseCents int64) (CouponResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	discount, ok := s[normalized]
	if !ok {
		return CouponResult{Reason: "Coupon is not valid"}, nil
	}
	if discount > baseCents {
		discount = baseCents
	}
	return CouponResult{Valid: true, Code: normalized, DiscountCents: discount}, nil
}
