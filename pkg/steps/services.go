package steps

import "github.com/goliatone/go-orderwizard/pkg/draft"

// WebsiteDiscountPercent is the website add-on discount unlocked by selecting
// compliance or registered-agent service.
const WebsiteDiscountPercent = 25

// Services is the add-on selection step. Every toggle is optional, so the
// step never blocks advancement; it exists to annotate pricing.
type Services struct{}

// Validate implements Validator. It always succeeds.
func (Services) Validate(d draft.OrderDraft) Result {
	if !d.HasState() {
		var f failure
		f.add("stateCode", "Select a formation state first")
		return f.result()
	}
	return ok()
}

// WebsiteDiscountEligible reports whether the website add-on discount is
// unlocked by the current selections.
func WebsiteDiscountEligible(s draft.Services) bool {
	return s.Compliance || s.RegisteredAgent
}
