package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-orderwizard/pkg/account"
	"github.com/goliatone/go-orderwizard/pkg/draft"
)

// Authenticator issues sessions for the mid-wizard account step.
// account.Client implements it against the auth upstream.
type Authenticator interface {
	Register(ctx context.Context, req account.RegisterRequest) (account.Session, error)
	Login(ctx context.Context, req account.LoginRequest) (account.Session, error)
}

var _ Authenticator = (*account.Client)(nil)

type authResponse struct {
	Success    bool   `json:"success"`
	Email      string `json:"email,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// registerHandler creates an account and authenticates the session. In-flight
// credentials clear from the draft once the session exists.
func (s *Server) registerHandler() http.Handler {
	return s.authMutation(func(ctx context.Context, sess *userSession, body []byte) (account.Session, error) {
		var req account.RegisterRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return account.Session{}, errBadAuthRequest
		}
		d := sess.ctrl.Draft()
		if req.FirstName == "" {
			req.FirstName = d.FirstName
		}
		if req.LastName == "" {
			req.LastName = d.LastName
		}
		return s.auth.Register(ctx, req)
	})
}

// loginHandler authenticates an existing account.
func (s *Server) loginHandler() http.Handler {
	return s.authMutation(func(ctx context.Context, sess *userSession, body []byte) (account.Session, error) {
		var req account.LoginRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return account.Session{}, errBadAuthRequest
		}
		return s.auth.Login(ctx, req)
	})
}

var errBadAuthRequest = errors.New("server: malformed auth request")

func (s *Server) authMutation(run func(ctx context.Context, sess *userSession, body []byte) (account.Session, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if s.auth == nil {
			http.Error(w, "authentication is not configured", http.StatusServiceUnavailable)
			return
		}
		sess := s.sessions.session(w, r)

		var body json.RawMessage
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		session, err := run(r.Context(), sess, body)
		if err != nil {
			if errors.Is(err, errBadAuthRequest) {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			var authErr account.AuthError
			if errors.As(err, &authErr) {
				s.writeJSON(w, http.StatusOK, authResponse{Error: authErr.Message})
				return
			}
			s.log.Warn("auth request failed", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}

		sess.authenticate(session)
		sess.ctrl.Dispatch(draft.ClearCredentials{})
		s.writeJSON(w, http.StatusOK, authResponse{
			Success:    true,
			Email:      session.Email,
			CustomerID: session.CustomerID,
		})
	})
}
