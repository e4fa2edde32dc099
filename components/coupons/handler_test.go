package coupons

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-orderwizard/pkg/pricing"
)

func testValidator() pricing.CouponValidator {
	return pricing.StaticCoupons{"SAVE20": 2000}
}

func postValidate(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, validateResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload validateResponse
	if rec.Code == http.StatusOK || rec.Code == http.StatusBadRequest {
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec, payload
}

func TestNewHandler_ValidCoupon(t *testing.T) {
	h := NewHandler(WithValidator(testValidator()))

	rec, payload := postValidate(t, h, `{"code":"save20","orderTotal":9999,"serviceKey":"llc-formation"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !payload.Success || payload.Coupon == nil {
		t.Fatalf("expected success, got %#v", payload)
	}
	if payload.Coupon.Code != "SAVE20" || payload.Coupon.DiscountAmount != 2000 {
		t.Fatalf("unexpected coupon: %#v", payload.Coupon)
	}
}

func TestNewHandler_UnknownCoupon(t *testing.T) {
	h := NewHandler(WithValidator(testValidator()))

	rec, payload := postValidate(t, h, `{"code":"NOPE","orderTotal":9999}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if payload.Success || payload.Error == "" {
		t.Fatalf("expected failure with reason, got %#v", payload)
	}
}

func TestNewHandler_DiscountClampedToOrderTotal(t *testing.T) {
	h := NewHandler(WithValidator(testValidator()))

	_, payload := postValidate(t, h, `{"code":"SAVE20","orderTotal":500}`)
	if payload.Coupon == nil || payload.Coupon.DiscountAmount != 500 {
		t.Fatalf("expected clamped discount, got %#v", payload.Coupon)
	}
}

func TestNewHandler_WrongServiceKey(t *testing.T) {
	h := NewHandler(WithValidator(testValidator()))

	_, payload := postValidate(t, h, `{"code":"SAVE20","orderTotal":9999,"serviceKey":"trademark"}`)
	if payload.Success || payload.Error == "" {
		t.Fatalf("expected service key rejection, got %#v", payload)
	}
}

func TestNewHandler_EmptyCode(t *testing.T) {
	h := NewHandler(WithValidator(testValidator()))

	_, payload := postValidate(t, h, `{"code":"  ","orderTotal":9999}`)
	if payload.Success || payload.Error == "" {
		t.Fatalf("expected empty-code rejection, got %#v", payload)
	}
}

func TestNewHandler_BadJSON(t *testing.T) {
	h := NewHandler(WithValidator(testValidator()))

	rec, _ := postValidate(t, h, `{"code":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestNewHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(WithValidator(testValidator()))

	req := httptest.NewRequest(http.MethodGet, "/api/coupons/validate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestNewHandler_MissingValidator(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestNewHandler_GuardRejects(t *testing.T) {
	h := NewHandler(
		WithValidator(testValidator()),
		WithGuard(func(r *http.Request) error {
			return StatusError{Code: http.StatusTooManyRequests}
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
}
