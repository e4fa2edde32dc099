package steps

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-orderwizard/pkg/draft"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// BasicInfo validates the opening step: formation state, company name (unless
// deferred), contact name, email, and phone.
type BasicInfo struct{}

// Validate implements Validator.
func (BasicInfo) Validate(d draft.OrderDraft) Result {
	var f failure

	if strings.TrimSpace(d.StateCode) == "" {
		f.add("stateCode", "Select a formation state")
	}
	if !d.NoNameYet && strings.TrimSpace(d.CompanyName) == "" {
		f.add("companyName", "Enter a company name or choose \"I don't have a name yet\"")
	}
	if strings.TrimSpace(d.FirstName) == "" {
		f.add("firstName", "First name is required")
	}
	if strings.TrimSpace(d.LastName) == "" {
		f.add("lastName", "Last name is required")
	}
	if !emailPattern.MatchString(strings.TrimSpace(d.Email)) {
		f.add("email", "Enter a valid email address")
	}
	if len(draft.NormalizePhone(d.Phone)) != 10 {
		f.add("phone", "Enter a 10-digit phone number")
	}

	return f.result()
}
