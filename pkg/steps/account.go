package steps

import (
	"strings"

	"github.com/goliatone/go-orderwizard/pkg/account"
	"github.com/goliatone/go-orderwizard/pkg/draft"
)

// MinPasswordLength is the floor enforced for new credentials.
const MinPasswordLength = 8

// SessionSource reports the current authentication state. Injected so the
// validator stays stateless across the OAuth round trip.
type SessionSource func() account.Session

// Account validates the mid-wizard login/registration step. With an
// authenticated session the step is a read-only confirmation and always
// valid.
type Account struct {
	Session SessionSource
}

// Validate implements Validator.
func (a Account) Validate(d draft.OrderDraft) Result {
	if a.Session != nil && a.Session().Authenticated {
		return ok()
	}

	var f failure
	if !d.HasState() {
		f.add("stateCode", "Select a formation state first")
	}

	creds := d.Credentials
	if !emailPattern.MatchString(strings.TrimSpace(creds.Email)) {
		f.add("accountEmail", "Enter a valid email address")
	}
	if len(creds.Password) < MinPasswordLength {
		f.add("password", "Password must be at least 8 characters")
	}
	if creds.NewAccount && creds.Password != creds.ConfirmPassword {
		f.add("confirmPassword", "Passwords do not match")
	}

	return f.result()
}
