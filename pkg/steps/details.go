package steps

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-orderwizard/pkg/draft"
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Details validates the LLC details step: business address, city, US ZIP, and
// business purpose.
type Details struct{}

// Validate implements Validator.
func (Details) Validate(d draft.OrderDraft) Result {
	var f failure

	if !d.HasState() {
		f.add("stateCode", "Select a formation state first")
	}

	addr := d.Address
	if strings.TrimSpace(addr.Street) == "" {
		f.add("businessAddress", "Business address is required")
	}
	if strings.TrimSpace(addr.City) == "" {
		f.add("businessCity", "City is required")
	}
	if !zipPattern.MatchString(strings.TrimSpace(addr.Zip)) {
		f.add("businessZip", "Enter a valid US ZIP code")
	}
	if strings.TrimSpace(addr.Purpose) == "" {
		f.add("businessPurpose", "Describe the business purpose")
	}

	return f.result()
}
