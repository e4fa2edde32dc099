package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderwizard/pkg/draft"
	"github.com/goliatone/go-orderwizard/pkg/payment"
	"github.com/goliatone/go-orderwizard/pkg/pricing"
	"github.com/goliatone/go-orderwizard/pkg/receipt"
	"github.com/goliatone/go-orderwizard/pkg/steps"
	"github.com/goliatone/go-orderwizard/pkg/wizard"
)

func orderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Walk through a complete LLC formation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd.Context(), cmd)
		},
	}
}

func runOrder(ctx context.Context, cmd *cobra.Command) error {
	ctrl := wizard.New(
		wizard.WithValidator(wizard.StepBasicInfo, steps.BasicInfo{}),
		wizard.WithValidator(wizard.StepServices, steps.Services{}),
		wizard.WithValidator(wizard.StepDetails, steps.Details{}),
		wizard.WithValidator(wizard.StepPayment, steps.PaymentStep{}),
	)
	out := cmd.OutOrStdout()

	if err := askBasicInfo(ctx, ctrl); err != nil {
		return err
	}
	if err := askServices(ctrl); err != nil {
		return err
	}
	if err := askDetails(ctrl); err != nil {
		return err
	}
	if err := askPayment(ctx, ctrl, out); err != nil {
		return err
	}

	confirmation := steps.Confirmation{}
	d, err := confirmation.Finalize(ctx, ctrl.Draft())
	if err != nil {
		return err
	}
	ctrl.Dispatch(draft.SetOrderID{ID: d.OrderID})

	renderer, err := receipt.New(catalog)
	if err != nil {
		return err
	}
	text, err := renderer.Render(receipt.TemplateText, d)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, text)
	return nil
}

func askBasicInfo(ctx context.Context, ctrl *wizard.Controller) error {
	fees, err := catalog.Fees().StateFees(ctx)
	if err != nil {
		return err
	}
	stateOptions := make([]string, 0, len(fees))
	for _, fee := range fees {
		stateOptions = append(stateOptions, fmt.Sprintf("%s (filing %s)", fee.StateCode, money(fee.FilingCents)))
	}

	for {
		var hasName bool
		if err := survey.AskOne(&survey.Confirm{Message: "Do you have a company name yet?", Default: true}, &hasName); err != nil {
			return err
		}

		var companyName string
		if hasName {
			if err := survey.AskOne(&survey.Input{Message: "Company name:"}, &companyName); err != nil {
				return err
			}
		}

		answers := struct {
			FirstName string
			LastName  string
			Email     string
			Phone     string
		}{}
		qs := []*survey.Question{
			{Name: "firstName", Prompt: &survey.Input{Message: "First name:"}},
			{Name: "lastName", Prompt: &survey.Input{Message: "Last name:"}},
			{Name: "email", Prompt: &survey.Input{Message: "Email:"}},
			{Name: "phone", Prompt: &survey.Input{Message: "Phone:"}},
		}
		if err := survey.Ask(qs, &answers); err != nil {
			return err
		}

		var stateChoice string
		if err := survey.AskOne(&survey.Select{Message: "Formation state:", Options: stateOptions}, &stateChoice); err != nil {
			return err
		}
		stateCode := strings.Fields(stateChoice)[0]

		actions := []draft.Action{
			draft.SetContact{
				FirstName: answers.FirstName,
				LastName:  answers.LastName,
				Email:     answers.Email,
				Phone:     answers.Phone,
			},
			draft.SetState{Code: stateCode},
		}
		if hasName {
			actions = append(actions, draft.SetCompanyName{Name: companyName})
		} else {
			actions = append(actions, draft.DeferCompanyName{Deferred: true})
		}

		res := ctrl.Submit(wizard.StepBasicInfo, actions...)
		if res.Valid {
			break
		}
		printErrors(res)
	}

	fee, err := catalog.Fees().StateFee(ctx, ctrl.Draft().StateCode)
	if err == nil {
		ctrl.Dispatch(draft.SetStateFees{
			FilingCents: fee.FilingCents,
			RushCents:   fee.RushCents,
		})
		if fee.RushAvailable && fee.RushCents != nil {
			var rush bool
			msg := fmt.Sprintf("Add rush filing for %s?", money(*fee.RushCents))
			if err := survey.AskOne(&survey.Confirm{Message: msg}, &rush); err != nil {
				return err
			}
			ctrl.Dispatch(draft.SetRush{Rush: rush})
		}
	}
	return nil
}

func askServices(ctrl *wizard.Controller) error {
	options := []string{
		"Registered Agent Service",
		"Compliance Package",
		"EIN Filing",
		"Operating Agreement",
		"Bank Resolution Letter",
	}
	var selected []string
	if err := survey.AskOne(&survey.MultiSelect{Message: "Add-on services:", Options: options}, &selected); err != nil {
		return err
	}

	services := draft.Services{}
	for _, choice := range selected {
		switch choice {
		case "Registered Agent Service":
			services.RegisteredAgent = true
		case "Compliance Package":
			services.Compliance = true
		case "EIN Filing":
			services.EIN = true
		case "Operating Agreement":
			services.OperatingAgreement = true
		case "Bank Resolution Letter":
			services.BankLetter = true
		}
	}

	var tier string
	tiers := []string{"none", "starter", "business", "premium"}
	if err := survey.AskOne(&survey.Select{Message: "Website package:", Options: tiers, Default: "none"}, &tier); err != nil {
		return err
	}
	if tier != "none" {
		services.WebsiteTier = draft.WebsiteTier(tier)
		if err := survey.AskOne(&survey.Confirm{Message: "Add a blog to the website?"}, &services.BlogAddon); err != nil {
			return err
		}
	}

	res := ctrl.Submit(wizard.StepServices, draft.SetServices{Services: services})
	if !res.Valid {
		printErrors(res)
	}
	// Account creation is deferred to checkout in the CLI flow.
	ctrl.Advance(wizard.StepAccount)
	return nil
}

func askDetails(ctrl *wizard.Controller) error {
	for {
		answers := struct {
			Street  string
			City    string
			Zip     string
			Purpose string
		}{}
		qs := []*survey.Question{
			{Name: "street", Prompt: &survey.Input{Message: "Business street address:"}},
			{Name: "city", Prompt: &survey.Input{Message: "City:"}},
			{Name: "zip", Prompt: &survey.Input{Message: "ZIP code:"}},
			{Name: "purpose", Prompt: &survey.Multiline{Message: "Business purpose:"}},
		}
		if err := survey.Ask(qs, &answers); err != nil {
			return err
		}

		res := ctrl.Submit(wizard.StepDetails, draft.SetAddress{Address: draft.Address{
			Street:  answers.Street,
			City:    answers.City,
			Zip:     answers.Zip,
			Purpose: answers.Purpose,
		}})
		if res.Valid {
			return nil
		}
		printErrors(res)
	}
}

func askPayment(ctx context.Context, ctrl *wizard.Controller, out io.Writer) error {
	d := ctrl.Draft()
	items := catalog.LineItems(d)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Order summary:")
	for _, item := range items {
		suffix := ""
		if item.Recurring {
			suffix = " (recurring)"
		}
		fmt.Fprintf(out, "  %-28s %10s%s\n", item.Label, money(item.AmountCents), suffix)
	}
	fmt.Fprintf(out, "  %-28s %10s\n", "Due today", money(pricing.DueTodayCents(items)))

	var couponCode string
	if err := survey.AskOne(&survey.Input{Message: "Coupon code (leave empty to skip):"}, &couponCode); err != nil {
		return err
	}
	if strings.TrimSpace(couponCode) != "" {
		validator := pricing.StaticCoupons{"SAVE20": 2000, "WELCOME10": 1000}
		result, err := validator.ValidateCoupon(ctx, couponCode, d.BaseFeeCents)
		if err == nil && result.Valid {
			ctrl.Dispatch(draft.ApplyCoupon{Code: result.Code, DiscountCents: result.DiscountCents})
			fmt.Fprintf(out, "Coupon %s applied: -%s\n", result.Code, money(result.DiscountCents))
		} else if result.Reason != "" {
			fmt.Fprintln(out, result.Reason)
		}
	}

	confirmation, err := collectCard(ctx, ctrl)
	if err != nil {
		return err
	}
	ctrl.Dispatch(draft.SetPayment{Payment: draft.Payment{
		TransactionID:   confirmation.PaymentID,
		Provider:        confirmation.Provider,
		CardBrand:       confirmation.CardBrand,
		CardLast4:       confirmation.CardLast4,
		CustomerID:      confirmation.CustomerID,
		PaymentMethodID: confirmation.PaymentMethodID,
	}})

	res := ctrl.Submit(wizard.StepPayment)
	if !res.Valid {
		printErrors(res)
		return fmt.Errorf("payment was not recorded")
	}
	return nil
}

// collectCard prompts for a card and charges it with an in-process adapter so
// the walkthrough works without a payment backend.
func collectCard(ctx context.Context, ctrl *wizard.Controller) (payment.Confirmation, error) {
	answers := struct {
		Number   string
		ExpMonth int
		ExpYear  int
		CVC      string
	}{}
	qs := []*survey.Question{
		{Name: "number", Prompt: &survey.Input{Message: "Card number:"}},
		{Name: "expMonth", Prompt: &survey.Input{Message: "Expiry month (MM):"}},
		{Name: "expYear", Prompt: &survey.Input{Message: "Expiry year (YYYY):"}},
		{Name: "cvc", Prompt: &survey.Password{Message: "CVC:"}},
	}
	if err := survey.Ask(qs, &answers); err != nil {
		return payment.Confirmation{}, err
	}

	d := ctrl.Draft()
	adapter := demoAdapter{}
	return adapter.Confirm(ctx, payment.Request{
		AmountCents: d.TodayTotalCents(),
		Customer:    payment.Customer{Email: d.Email},
		Card: &payment.Card{
			Number:   answers.Number,
			ExpMonth: answers.ExpMonth,
			ExpYear:  answers.ExpYear,
			CVC:      answers.CVC,
		},
	})
}

// demoAdapter approves every charge. It stands in for payment.Processor when
// the CLI runs offline.
type demoAdapter struct{}

var _ payment.Adapter = demoAdapter{}

func (demoAdapter) Confirm(_ context.Context, req payment.Request) (payment.Confirmation, error) {
	if req.Card == nil || req.Card.Number == "" {
		return payment.Confirmation{}, payment.ErrIncompleteRequest
	}
	last4 := req.Card.Number
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return payment.Confirmation{
		PaymentID: "demo_" + uuid.NewString(),
		Provider:  "demo",
		CardBrand: "visa",
		CardLast4: last4,
	}, nil
}

func printErrors(res steps.Result) {
	keys := make([]string, 0, len(res.FieldErrors))
	for k := range res.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, field := range keys {
		fmt.Printf("  %s: %s\n", field, res.FieldErrors[field])
	}
}
