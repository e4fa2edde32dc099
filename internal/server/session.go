package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-orderwizard/pkg/account"
	"github.com/goliatone/go-orderwizard/pkg/steps"
	"github.com/goliatone/go-orderwizard/pkg/wizard"
)

// sessionCookie carries the wizard session id across requests.
const sessionCookie = "owsid"

// userSession pairs a wizard controller with the authentication state the
// account validator reads. Auth flips from anonymous exactly once, on a
// successful register or login.
type userSession struct {
	ctrl *wizard.Controller

	mu   sync.Mutex
	auth account.Session
}

func (u *userSession) session() account.Session {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.auth
}

func (u *userSession) authenticate(s account.Session) {
	u.mu.Lock()
	u.auth = s
	u.mu.Unlock()
}

// sessionStore keeps one session per browser. Sessions are in-memory only; a
// lost cookie restarts the wizard at step one.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*userSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*userSession),
	}
}

func (s *sessionStore) newSession() *userSession {
	sess := &userSession{auth: account.Anonymous()}
	sess.ctrl = wizard.New(
		wizard.WithValidator(wizard.StepBasicInfo, steps.BasicInfo{}),
		wizard.WithValidator(wizard.StepServices, steps.Services{}),
		wizard.WithValidator(wizard.StepAccount, steps.Account{Session: sess.session}),
		wizard.WithValidator(wizard.StepDetails, steps.Details{}),
		wizard.WithValidator(wizard.StepPayment, steps.PaymentStep{}),
	)
	return sess
}

// session resolves the request's session, creating one when the cookie is
// absent. The cookie is (re)issued on creation.
func (s *sessionStore) session(w http.ResponseWriter, r *http.Request) *userSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions[cookie.Value]; ok {
			return sess
		}
	}

	id := uuid.NewString()
	sess := s.newSession()
	s.sessions[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// drop removes a session after hand-off so the envelope is the only copy.
func (s *sessionStore) drop(r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, cookie.Value)
	s.mu.Unlock()
}
