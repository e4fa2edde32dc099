package draft

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApply_DeferClearsCompanyName(t *testing.T) {
	d := Apply(New(), SetCompanyName{Name: "Acme Holdings LLC"})
	if d.CompanyName != "Acme Holdings LLC" || d.NoNameYet {
		t.Fatalf("unexpected draft after naming: %+v", d)
	}

	d = Apply(d, DeferCompanyName{Deferred: true})
	if d.CompanyName != "" {
		t.Fatalf("expected company name cleared, got %q", d.CompanyName)
	}
	if !d.NoNameYet {
		t.Fatal("expected deferral flag set")
	}
}

func TestApply_NamingClearsDeferral(t *testing.T) {
	d := Apply(New(), DeferCompanyName{Deferred: true}, SetCompanyName{Name: "Acme LLC"})
	if d.NoNameYet {
		t.Fatal("expected deferral flag cleared once a name is entered")
	}
}

func TestApply_StateChangeResetsFees(t *testing.T) {
	rush := int64(2500)
	d := Apply(New(),
		SetState{Code: "TX"},
		SetStateFees{FilingCents: 30000, RushCents: &rush},
	)
	if d.StateFeeCents == nil || *d.StateFeeCents != 30000 {
		t.Fatalf("unexpected filing fee: %v", d.StateFeeCents)
	}

	d = Apply(d, SetState{Code: "WY"})
	if d.StateFeeCents != nil || d.RushFeeCents != nil {
		t.Fatalf("expected fees reset on state change, got %+v", d)
	}

	// Re-selecting the same state keeps looked-up fees.
	d = Apply(d, SetStateFees{FilingCents: 10000}, SetState{Code: "WY"})
	if d.StateFeeCents == nil || *d.StateFeeCents != 10000 {
		t.Fatalf("expected fees preserved for same state, got %v", d.StateFeeCents)
	}
}

func TestApply_CouponClampedToBaseFee(t *testing.T) {
	d := Apply(New(), ApplyCoupon{Code: "LAUNCH", DiscountCents: 50000})
	if d.DiscountCents != d.BaseFeeCents {
		t.Fatalf("expected discount clamped to base fee %d, got %d", d.BaseFeeCents, d.DiscountCents)
	}

	d = Apply(d, RemoveCoupon{})
	if d.CouponCode != "" || d.DiscountCents != 0 {
		t.Fatalf("expected coupon removed, got %+v", d)
	}
}

func TestApply_NilActionsIgnored(t *testing.T) {
	before := New()
	after := Apply(before, nil, nil)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("draft changed by nil actions (-before +after):\n%s", diff)
	}
}

func TestApply_ContactNormalizesPhone(t *testing.T) {
	d := Apply(New(), SetContact{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "(555) 123-4567",
	})
	if d.Phone != "5551234567" {
		t.Fatalf("expected digits-only phone, got %q", d.Phone)
	}
}

func TestApply_PaymentCopied(t *testing.T) {
	payment := Payment{TransactionID: "tx_1", Provider: "stripe", CardLast4: "4242"}
	d := Apply(New(), SetPayment{Payment: payment})

	payment.TransactionID = "mutated"
	if d.Payment == nil || d.Payment.TransactionID != "tx_1" {
		t.Fatalf("expected payment copied into draft, got %+v", d.Payment)
	}
}
