// Package orderwizard re-exports the most used pieces of the LLC order wizard
// so quick-start callers need a single import. The subpackages under pkg/
// remain the primary API surface.
package orderwizard

import (
	"context"

	"github.com/goliatone/go-orderwizard/pkg/draft"
	"github.com/goliatone/go-orderwizard/pkg/handoff"
	"github.com/goliatone/go-orderwizard/pkg/pricing"
	"github.com/goliatone/go-orderwizard/pkg/steps"
	"github.com/goliatone/go-orderwizard/pkg/wizard"
)

// OrderDraft aliases the aggregate order record exported via the root package
// for convenience.
type OrderDraft = draft.OrderDraft

// Step identifies one wizard step.
type Step = wizard.Step

// Controller drives step navigation and draft updates.
type Controller = wizard.Controller

// Envelope is the hand-off record persisted across external redirects.
type Envelope = handoff.Envelope

// StepResult reports the outcome of a step validation.
type StepResult = steps.Result

// LineItem is a priced checkout row.
type LineItem = pricing.LineItem

// NewController exposes the wizard constructor from the top-level module. The
// default validators for all six steps are registered; pass wizard options to
// override or extend them.
func NewController(options ...wizard.Option) *wizard.Controller {
	defaults := []wizard.Option{
		wizard.WithValidator(wizard.StepBasicInfo, steps.BasicInfo{}),
		wizard.WithValidator(wizard.StepServices, steps.Services{}),
		wizard.WithValidator(wizard.StepDetails, steps.Details{}),
		wizard.WithValidator(wizard.StepPayment, steps.PaymentStep{}),
	}
	return wizard.New(append(defaults, options...)...)
}

// TodayTotal computes the amount charged at checkout for the draft, in cents.
func TodayTotal(d draft.OrderDraft) int64 {
	return d.TodayTotalCents()
}

// Quote prices the draft against the embedded catalog and returns the ordered
// checkout rows plus the amount due today.
func Quote(d draft.OrderDraft) ([]pricing.LineItem, int64) {
	items := pricing.DefaultCatalog().LineItems(d)
	return items, pricing.DueTodayCents(items)
}

// LookupStateFee resolves the filing fee for stateCode from the embedded
// catalog. Use a pricing.Client instead when fees come from a live service.
func LookupStateFee(ctx context.Context, stateCode string) (pricing.StateFee, error) {
	return pricing.DefaultCatalog().Fees().StateFee(ctx, stateCode)
}
