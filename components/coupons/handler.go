package coupons

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type validateRequest struct {
	Code       string `json:"code"`
	OrderTotal int64  `json:"orderTotal"`
	ServiceKey string `json:"serviceKey"`
}

type validateResponse struct {
	Success bool           `json:"success"`
	Coupon  *couponPayload `json:"coupon,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type couponPayload struct {
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discountAmount"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. Callers are expected to pass an Options value produced by NewOptions
// (or equivalent) so defaults apply.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		if opts.Validator == nil {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}

		var req validateRequest
		body := http.MaxBytesReader(w, r.Body, opts.MaxBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, validateResponse{Error: "Invalid request body"})
			return
		}

		if req.ServiceKey != "" && req.ServiceKey != opts.ServiceKey {
			writeJSON(w, http.StatusOK, validateResponse{Error: "Coupon does not apply to this service"})
			return
		}

		code := strings.TrimSpace(req.Code)
		if code == "" {
			writeJSON(w, http.StatusOK, validateResponse{Error: "Enter a coupon code"})
			return
		}

		result, err := opts.Validator.ValidateCoupon(r.Context(), code, req.OrderTotal)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
		if !result.Valid {
			reason := result.Reason
			if reason == "" {
				reason = "Coupon is not valid"
			}
			writeJSON(w, http.StatusOK, validateResponse{Error: reason})
			return
		}

		writeJSON(w, http.StatusOK, validateResponse{
			Success: true,
			Coupon: &couponPayload{
				Code:           result.Code,
				DiscountAmount: result.DiscountCents,
			},
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, payload validateResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
