package steps

import "github.com/goliatone/go-orderwizard/pkg/draft"

// PaymentStep blocks advancement until the payment adapter has reported
// success and the confirmation landed on the draft.
type PaymentStep struct{}

// Validate implements Validator.
func (PaymentStep) Validate(d draft.OrderDraft) Result {
	if d.Payment == nil || d.Payment.TransactionID == "" {
		var f failure
		f.add("payment", "Complete payment to continue")
		return f.result()
	}
	return ok()
}
