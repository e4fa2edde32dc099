package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-orderwizard/pkg/draft"
	"github.com/goliatone/go-orderwizard/pkg/payment"
	"github.com/goliatone/go-orderwizard/pkg/wizard"
)

type cardPayload struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

type paymentRequest struct {
	SavedMethodID string       `json:"savedMethodId,omitempty"`
	Card          *cardPayload `json:"card,omitempty"`
	SaveMethod    bool         `json:"saveMethod"`
}

type paymentResponse struct {
	Paid  bool       `json:"paid"`
	Error string     `json:"error,omitempty"`
	State orderState `json:"state"`
}

// paymentHandler runs the checkout attempt for the amount due today. On
// success the confirmation lands on the draft and the payment step submits,
// moving the session to confirmation. Declines report inline and leave the
// step where it was.
func (s *Server) paymentHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if s.payments == nil {
			http.Error(w, "payment is not configured", http.StatusServiceUnavailable)
			return
		}
		sess := s.sessions.session(w, r)
		ctrl := sess.ctrl
		if ctrl.Current() != wizard.StepPayment {
			s.writeJSON(w, http.StatusConflict, paymentResponse{
				Error: "Complete the earlier steps first",
				State: s.state(ctrl),
			})
			return
		}

		var req paymentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		d := ctrl.Draft()
		auth := sess.session()
		charge := payment.Request{
			AmountCents: d.TodayTotalCents(),
			Customer: payment.Customer{
				Email:      d.Email,
				FirstName:  d.FirstName,
				LastName:   d.LastName,
				CustomerID: auth.CustomerID,
			},
			SavedMethodID: strings.TrimSpace(req.SavedMethodID),
			SaveMethod:    req.SaveMethod,
		}
		if req.Card != nil {
			charge.Card = &payment.Card{
				Number:   req.Card.Number,
				ExpMonth: req.Card.ExpMonth,
				ExpYear:  req.Card.ExpYear,
				CVC:      req.Card.CVC,
			}
		}

		confirmation, err := s.payments.Confirm(r.Context(), charge)
		if err != nil {
			s.log.Info("payment declined", zap.Error(err))
			s.writeJSON(w, http.StatusOK, paymentResponse{
				Error: payment.DisplayError(err),
				State: s.state(ctrl),
			})
			return
		}

		ctrl.Dispatch(draft.SetPayment{Payment: draft.Payment{
			TransactionID:   confirmation.PaymentID,
			Provider:        confirmation.Provider,
			CardBrand:       confirmation.CardBrand,
			CardLast4:       confirmation.CardLast4,
			CustomerID:      confirmation.CustomerID,
			PaymentMethodID: confirmation.PaymentMethodID,
		}})
		ctrl.Submit(wizard.StepPayment)

		s.writeJSON(w, http.StatusOK, paymentResponse{
			Paid:  true,
			State: s.state(ctrl),
		})
	})
}

type savedMethodsPayload struct {
	Data []payment.SavedMethod `json:"data"`
}

// methodsHandler lists the authenticated customer's saved payment methods
// from the payment upstream.
func (s *Server) methodsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		url := strings.TrimSpace(s.cfg.Upstreams.PaymentURL)
		if url == "" {
			http.Error(w, "payment is not configured", http.StatusServiceUnavailable)
			return
		}
		auth := s.sessions.session(w, r).session()
		if !auth.Authenticated {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		client, err := payment.NewMethodsClient(url, auth.Token)
		if err != nil {
			s.log.Warn("methods client unavailable", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
		methods, err := client.SavedMethods(r.Context(), auth.CustomerID)
		if err != nil {
			s.log.Warn("saved methods lookup failed", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
		s.writeJSON(w, http.StatusOK, savedMethodsPayload{Data: methods})
	})
}
