package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-orderwizard/pkg/draft"
	"github.com/goliatone/go-orderwizard/pkg/pricing"
)

type couponRequest struct {
	Code string `json:"code"`
}

type couponStateResponse struct {
	Applied bool       `json:"applied"`
	Reason  string     `json:"reason,omitempty"`
	State   orderState `json:"state"`
}

// couponHandler applies a validated coupon to the session draft (POST) or
// removes the applied one (DELETE). Re-applying while a coupon is set is
// rejected; the customer removes it first.
func (s *Server) couponHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.session(w, r)
		ctrl := sess.ctrl

		switch r.Method {
		case http.MethodPost:
			var req couponRequest
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			code := strings.ToUpper(strings.TrimSpace(req.Code))
			if code == "" {
				s.writeJSON(w, http.StatusOK, couponStateResponse{
					Reason: "Enter a coupon code",
					State:  s.state(ctrl),
				})
				return
			}

			d := ctrl.Draft()
			res, err := s.coupons.ValidateCoupon(r.Context(), code, d.BaseFeeCents)
			if err != nil {
				s.log.Warn("coupon validation failed", zap.String("code", code), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
				return
			}

			if _, err := pricing.ApplyCouponResult(d, res); err != nil {
				if errors.Is(err, pricing.ErrCouponAlreadyApplied) {
					s.writeJSON(w, http.StatusConflict, couponStateResponse{
						Reason: "Remove the applied coupon first",
						State:  s.state(ctrl),
					})
					return
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !res.Valid {
				s.writeJSON(w, http.StatusOK, couponStateResponse{
					Reason: res.Reason,
					State:  s.state(ctrl),
				})
				return
			}

			ctrl.Dispatch(draft.ApplyCoupon{Code: res.Code, DiscountCents: res.DiscountCents})
			s.writeJSON(w, http.StatusOK, couponStateResponse{
				Applied: true,
				State:   s.state(ctrl),
			})
		case http.MethodDelete:
			ctrl.Dispatch(draft.RemoveCoupon{})
			s.writeJSON(w, http.StatusOK, couponStateResponse{State: s.state(ctrl)})
		default:
			w.Header().Set("Allow", http.MethodPost+", "+http.MethodDelete)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
}
