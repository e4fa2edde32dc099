package pricing

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderwizard/pkg/draft"
)

func TestDefaultCatalog_Parses(t *testing.T) {
	catalog := DefaultCatalog()
	if catalog.BaseFeeCents != 9999 {
		t.Fatalf("unexpected base fee %d", catalog.BaseFeeCents)
	}
	if len(catalog.States) == 0 {
		t.Fatal("expected state table")
	}

	fee, err := catalog.Fees().StateFee(context.Background(), "tx")
	if err != nil {
		t.Fatalf("state fee: %v", err)
	}
	if fee.FilingCents != 0 || fee.RushAvailable {
		t.Fatalf("unexpected TX fee: %+v", fee)
	}

	if _, err := catalog.Fees().StateFee(context.Background(), "ZZ"); err != ErrUnknownState {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestCatalog_LineItems(t *testing.T) {
	catalog := DefaultCatalog()
	rush := int64(5000)
	d := draft.Apply(draft.New(),
		draft.SetState{Code: "WY"},
		draft.SetStateFees{FilingCents: 10000, RushCents: &rush},
		draft.SetRush{Rush: true},
		draft.ApplyCoupon{Code: "SAVE20", DiscountCents: 2000},
		draft.SetServices{Services: draft.Services{
			RegisteredAgent: true,
			EIN:             true,
			WebsiteTier:     draft.WebsiteTierBusiness,
			BlogAddon:       true,
		}},
	)

	items := catalog.LineItems(d)

	got := map[string]int64{}
	for _, item := range items {
		got[item.Key] = item.AmountCents
	}
	want := map[string]int64{
		"formation":        9999,
		"stateFee":         10000,
		"rushFee":          5000,
		"coupon":           -2000,
		"registeredAgent":  11900,
		"ein":              7900,
		"website.business": 7425, // 9900 less the 25% unlock
		"website.blog":     1900,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("line items mismatch (-want +got):\n%s", diff)
	}

	if due := DueTodayCents(items); due != d.TodayTotalCents() {
		t.Fatalf("DueTodayCents %d != TodayTotalCents %d", due, d.TodayTotalCents())
	}
}

func TestCatalog_WebsiteDiscountRequiresUnlock(t *testing.T) {
	catalog := DefaultCatalog()
	d := draft.Apply(draft.New(),
		draft.SetState{Code: "TX"},
		draft.SetServices{Services: draft.Services{WebsiteTier: draft.WebsiteTierStarter}},
	)

	for _, item := range catalog.LineItems(d) {
		if item.Key == "website.starter" && item.AmountCents != 4900 {
			t.Fatalf("expected full price without unlock, got %d", item.AmountCents)
		}
	}
}

func TestCatalog_RecurringNeverDueToday(t *testing.T) {
	catalog := DefaultCatalog()
	d := draft.Apply(draft.New(),
		draft.SetState{Code: "TX"},
		draft.SetStateFees{FilingCents: 0},
		draft.SetServices{Services: draft.Services{
			RegisteredAgent: true,
			Compliance:      true,
			WebsiteTier:     draft.WebsiteTierPremium,
		}},
	)

	items := catalog.LineItems(d)
	if due := DueTodayCents(items); due != 9999 {
		t.Fatalf("expected only the formation package due today, got %d", due)
	}
}
