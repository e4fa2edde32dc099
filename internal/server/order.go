package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-orderwizard/pkg/draft"
	"github.com/goliatone/go-orderwizard/pkg/handoff"
	"github.com/goliatone/go-orderwizard/pkg/pricing"
	"github.com/goliatone/go-orderwizard/pkg/wizard"
)

type orderState struct {
	Step      int                `json:"step"`
	StepName  string             `json:"stepName"`
	Completed []int              `json:"completed"`
	Draft     draft.OrderDraft   `json:"draft"`
	Items     []pricing.LineItem `json:"items"`
	DueToday  int64              `json:"dueToday"`
}

type submitRequest struct {
	Step int `json:"step"`

	CompanyName *string           `json:"companyName,omitempty"`
	NoNameYet   *bool             `json:"noNameYet,omitempty"`
	FirstName   *string           `json:"firstName,omitempty"`
	LastName    *string           `json:"lastName,omitempty"`
	Email       *string           `json:"email,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	StateCode   *string           `json:"stateCode,omitempty"`
	Rush        *bool             `json:"rush,omitempty"`
	Services    *draft.Services   `json:"services,omitempty"`
	Address     *draft.Address    `json:"address,omitempty"`
	Credentials *credentialsPatch `json:"credentials,omitempty"`
}

type credentialsPatch struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	NewAccount      bool   `json:"newAccount"`
}

type submitResponse struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	First       string            `json:"first,omitempty"`
	State       orderState        `json:"state"`
}

type stepRequest struct {
	Step int `json:"step"`
}

// orderHandler serves the wizard session: GET reflects (and follows) the step
// query parameter, POST submits the current step with a draft patch.
func (s *Server) orderHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.session(w, r)

		switch r.Method {
		case http.MethodGet:
			if raw := r.URL.Query().Get(wizard.StepParam); raw != "" {
				sess.ctrl.JumpTo(wizard.ParseStep(raw))
			}
			s.writeState(w, http.StatusOK, sess.ctrl)
		case http.MethodPost:
			s.handleSubmit(w, r, sess.ctrl)
		default:
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, ctrl *wizard.Controller) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	step := wizard.Step(req.Step)
	if !step.Valid() {
		step = ctrl.Current()
	}

	actions := buildActions(req, ctrl.Draft())
	if req.StateCode != nil {
		if action, ok := s.stateFeeAction(r.Context(), *req.StateCode); ok {
			actions = append(actions, action)
		}
	}
	res := ctrl.Submit(step, actions...)
	if !res.Valid {
		s.log.Debug("step blocked",
			zap.Stringer("step", step),
			zap.String("first", res.First),
		)
	}

	s.writeJSON(w, http.StatusOK, submitResponse{
		Valid:       res.Valid,
		FieldErrors: res.FieldErrors,
		First:       res.First,
		State:       s.state(ctrl),
	})
}

// stateFeeAction resolves the filing fee for the selected state. A failed
// lookup leaves the fee fields unset and never blocks navigation.
func (s *Server) stateFeeAction(ctx context.Context, code string) (draft.Action, bool) {
	fee, err := s.fees.StateFee(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		s.log.Warn("state fee lookup failed",
			zap.String("state", code),
			zap.Error(err),
		)
		return nil, false
	}
	return draft.SetStateFees{FilingCents: fee.FilingCents, RushCents: fee.RushCents}, true
}

// buildActions converts the non-nil patch fields into draft actions.
func buildActions(req submitRequest, current draft.OrderDraft) []draft.Action {
	var actions []draft.Action

	if req.NoNameYet != nil && *req.NoNameYet {
		actions = append(actions, draft.DeferCompanyName{Deferred: true})
	} else if req.CompanyName != nil {
		actions = append(actions, draft.SetCompanyName{Name: strings.TrimSpace(*req.CompanyName)})
	}

	if req.FirstName != nil || req.LastName != nil || req.Email != nil || req.Phone != nil {
		contact := draft.SetContact{
			FirstName: current.FirstName,
			LastName:  current.LastName,
			Email:     current.Email,
			Phone:     current.Phone,
		}
		if req.FirstName != nil {
			contact.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			contact.LastName = *req.LastName
		}
		if req.Email != nil {
			contact.Email = *req.Email
		}
		if req.Phone != nil {
			contact.Phone = *req.Phone
		}
		actions = append(actions, contact)
	}

	if req.StateCode != nil {
		actions = append(actions, draft.SetState{Code: strings.ToUpper(strings.TrimSpace(*req.StateCode))})
	}
	if req.Rush != nil {
		actions = append(actions, draft.SetRush{Rush: *req.Rush})
	}
	if req.Services != nil {
		actions = append(actions, draft.SetServices{Services: *req.Services})
	}
	if req.Address != nil {
		actions = append(actions, draft.SetAddress{Address: *req.Address})
	}
	if req.Credentials != nil {
		actions = append(actions, draft.SetCredentials{Credentials: draft.Credentials{
			Email:           req.Credentials.Email,
			Password:        req.Credentials.Password,
			ConfirmPassword: req.Credentials.ConfirmPassword,
			NewAccount:      req.Credentials.NewAccount,
		}})
	}
	return actions
}

func (s *Server) backHandler() http.Handler {
	return s.stepMutation(func(ctrl *wizard.Controller, step wizard.Step) {
		ctrl.Retreat(step)
	})
}

func (s *Server) jumpHandler() http.Handler {
	return s.stepMutation(func(ctrl *wizard.Controller, step wizard.Step) {
		ctrl.JumpTo(step)
	})
}

func (s *Server) stepMutation(apply func(*wizard.Controller, wizard.Step)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		ctrl := s.sessions.session(w, r).ctrl

		var req stepRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		apply(ctrl, wizard.Step(req.Step))
		s.writeState(w, http.StatusOK, ctrl)
	})
}

type handoffResponse struct {
	Key string `json:"key"`
}

// handoffHandler snapshots the session ahead of an external redirect. The
// session is dropped so the envelope is the single authoritative copy.
func (s *Server) handoffHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		ctrl := s.sessions.session(w, r).ctrl

		key := handoff.DefaultKey + "." + uuid.NewString()
		if err := s.envelope.Put(key, ctrl.Snapshot()); err != nil {
			s.log.Error("handoff put failed", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.sessions.drop(r)
		s.writeJSON(w, http.StatusOK, handoffResponse{Key: key})
	})
}

// restoreHandler consumes a hand-off envelope. The envelope is removed on
// first read; a second restore with the same key starts a fresh session.
func (s *Server) restoreHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		key := r.URL.Query().Get("key")
		env, ok, err := s.envelope.Take(key)
		if err != nil {
			s.log.Warn("handoff take failed", zap.Error(err))
		}
		ctrl := s.sessions.session(w, r).ctrl
		if ok {
			ctrl.Restore(env)
		}
		s.writeState(w, http.StatusOK, ctrl)
	})
}

func (s *Server) state(ctrl *wizard.Controller) orderState {
	d := ctrl.Draft()
	items := s.catalog.LineItems(d)
	completed := ctrl.Completed()
	completedInts := make([]int, 0, len(completed))
	for _, step := range completed {
		completedInts = append(completedInts, int(step))
	}
	return orderState{
		Step:      int(ctrl.Current()),
		StepName:  ctrl.Current().String(),
		Completed: completedInts,
		Draft:     d,
		Items:     items,
		DueToday:  pricing.DueTodayCents(items),
	}
}

func (s *Server) writeState(w http.ResponseWriter, status int, ctrl *wizard.Controller) {
	s.writeJSON(w, status, s.state(ctrl))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(payload); err != nil {
		s.log.Warn("encode response failed", zap.Error(err))
	}
}
