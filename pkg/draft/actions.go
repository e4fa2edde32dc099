package draft

// Action describes a single immutable update against an OrderDraft. Steps
// never mutate the draft directly; they emit actions and the controller folds
// them through Apply. This keeps single-writer semantics explicit even though
// only one step is live at a time.
type Action interface {
	apply(d OrderDraft) OrderDraft
}

// Apply folds an action over the draft and returns the updated copy. Nil
// actions are ignored.
func Apply(d OrderDraft, actions ...Action) OrderDraft {
	for _, action := range actions {
		if action == nil {
			continue
		}
		d = action.apply(d)
	}
	return d
}

// SetCompanyName records the business name and clears the deferral flag.
type SetCompanyName struct{ Name string }

func (a SetCompanyName) apply(d OrderDraft) OrderDraft {
	d.CompanyName = a.Name
	if a.Name != "" {
		d.NoNameYet = false
	}
	return d
}

// DeferCompanyName toggles the "I don't have a name yet" flag. Choosing
// deferral clears any previously entered name so exactly one of name/deferred
// holds.
type DeferCompanyName struct{ Deferred bool }

func (a DeferCompanyName) apply(d OrderDraft) OrderDraft {
	d.NoNameYet = a.Deferred
	if a.Deferred {
		d.CompanyName = ""
	}
	return d
}

// SetContact updates the customer contact block. Phone input is normalized to
// digits on write.
type SetContact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (a SetContact) apply(d OrderDraft) OrderDraft {
	d.FirstName = a.FirstName
	d.LastName = a.LastName
	d.Email = a.Email
	d.Phone = NormalizePhone(a.Phone)
	return d
}

// SetState selects the formation state and resets any fees carried over from
// a previous selection.
type SetState struct{ Code string }

func (a SetState) apply(d OrderDraft) OrderDraft {
	if d.StateCode != a.Code {
		d.StateFeeCents = nil
		d.RushFeeCents = nil
	}
	d.StateCode = a.Code
	return d
}

// SetRush toggles rush processing.
type SetRush struct{ Rush bool }

func (a SetRush) apply(d OrderDraft) OrderDraft {
	d.Rush = a.Rush
	return d
}

// SetServices replaces the service selections wholesale.
type SetServices struct{ Services Services }

func (a SetServices) apply(d OrderDraft) OrderDraft {
	d.Services = a.Services
	return d
}

// SetAddress replaces the business address block.
type SetAddress struct{ Address Address }

func (a SetAddress) apply(d OrderDraft) OrderDraft {
	d.Address = a.Address
	return d
}

// SetCredentials stores in-flight account credentials while the customer is
// unauthenticated.
type SetCredentials struct{ Credentials Credentials }

func (a SetCredentials) apply(d OrderDraft) OrderDraft {
	d.Credentials = a.Credentials
	return d
}

// ClearCredentials wipes stored credentials once a session exists.
type ClearCredentials struct{}

func (ClearCredentials) apply(d OrderDraft) OrderDraft {
	d.Credentials = Credentials{}
	return d
}

// SetStateFees records the fee lookup result for the selected state.
type SetStateFees struct {
	FilingCents int64
	RushCents   *int64
}

func (a SetStateFees) apply(d OrderDraft) OrderDraft {
	filing := a.FilingCents
	d.StateFeeCents = &filing
	d.RushFeeCents = nil
	if a.RushCents != nil {
		rush := *a.RushCents
		d.RushFeeCents = &rush
	}
	return d
}

// ApplyCoupon records a validated coupon. The discount is clamped to the base
// formation fee; coupons never touch state fees or recurring add-ons.
type ApplyCoupon struct {
	Code          string
	DiscountCents int64
}

func (a ApplyCoupon) apply(d OrderDraft) OrderDraft {
	d.CouponCode = a.Code
	discount := a.DiscountCents
	if discount < 0 {
		discount = 0
	}
	if discount > d.BaseFeeCents {
		discount = d.BaseFeeCents
	}
	d.DiscountCents = discount
	return d
}

// RemoveCoupon clears the applied coupon. Re-applying a different code
// requires removal first.
type RemoveCoupon struct{}

func (RemoveCoupon) apply(d OrderDraft) OrderDraft {
	d.CouponCode = ""
	d.DiscountCents = 0
	return d
}

// SetPayment records the payment confirmation. It is written only after the
// payment adapter succeeds.
type SetPayment struct{ Payment Payment }

func (a SetPayment) apply(d OrderDraft) OrderDraft {
	payment := a.Payment
	d.Payment = &payment
	return d
}

// SetOrderID stamps the generated order reference at finalization.
type SetOrderID struct{ ID string }

func (a SetOrderID) apply(d OrderDraft) OrderDraft {
	d.OrderID = a.ID
	return d
}
