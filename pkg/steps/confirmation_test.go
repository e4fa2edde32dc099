package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-orderwizard/pkg/draft"
)

type countingPersister struct {
	calls int
	fail  bool
}

func (p *countingPersister) SaveOrder(_ context.Context, _ draft.OrderDraft) error {
	p.calls++
	if p.fail {
		return errors.New("store unavailable")
	}
	return nil
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) NotifyOrder(_ context.Context, _ draft.OrderDraft) error {
	n.calls++
	return nil
}

func TestConfirmation_FinalizeRunsOnce(t *testing.T) {
	persister := &countingPersister{}
	notifier := &countingNotifier{}
	conf := &Confirmation{Persister: persister, Notifier: notifier}

	d := draft.New()
	first, err := conf.Finalize(context.Background(), d)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if first.OrderID == "" {
		t.Fatal("expected an order reference to be stamped")
	}

	second, err := conf.Finalize(context.Background(), draft.New())
	if err != nil {
		t.Fatalf("repeat finalize: %v", err)
	}
	if second.OrderID != first.OrderID {
		t.Fatalf("expected repeat call to return the first result, got %q vs %q", second.OrderID, first.OrderID)
	}
	if persister.calls != 1 || notifier.calls != 1 {
		t.Fatalf("expected side effects once, got persist=%d notify=%d", persister.calls, notifier.calls)
	}
	if !conf.Finalized() {
		t.Fatal("expected Finalized to report true")
	}
}

func TestConfirmation_PersistFailureSkipsNotify(t *testing.T) {
	persister := &countingPersister{fail: true}
	notifier := &countingNotifier{}
	conf := &Confirmation{Persister: persister, Notifier: notifier}

	if _, err := conf.Finalize(context.Background(), draft.New()); err == nil {
		t.Fatal("expected persistence error")
	}
	if notifier.calls != 0 {
		t.Fatalf("expected no notification after failed persist, got %d", notifier.calls)
	}
}

func TestPaymentStep_BlocksWithoutConfirmation(t *testing.T) {
	res := PaymentStep{}.Validate(draft.New())
	if res.Valid {
		t.Fatal("expected payment step to block before adapter success")
	}
	if _, ok := res.FieldErrors["payment"]; !ok {
		t.Fatalf("expected payment field error, got %v", res.FieldErrors)
	}

	paid := draft.Apply(draft.New(), draft.SetPayment{Payment: draft.Payment{
		TransactionID: "tx_123",
		Provider:      "stripe",
	}})
	if res := (PaymentStep{}).Validate(paid); !res.Valid {
		t.Fatalf("expected valid after payment, got %v", res.FieldErrors)
	}
}

func TestServices_AlwaysValidWithState(t *testing.T) {
	d := draft.Apply(draft.New(), draft.SetState{Code: "TX"})
	if res := (Services{}).Validate(d); !res.Valid {
		t.Fatalf("expected services step valid, got %v", res.FieldErrors)
	}
	if res := (Services{}).Validate(draft.New()); res.Valid {
		t.Fatal("expected services step invalid without state")
	}
}

func TestWebsiteDiscountEligible(t *testing.T) {
	if WebsiteDiscountEligible(draft.Services{}) {
		t.Fatal("expected no discount without qualifying services")
	}
	if !WebsiteDiscountEligible(draft.Services{Compliance: true}) {
		t.Fatal("expected discount with compliance")
	}
	if !WebsiteDiscountEligible(draft.Services{RegisteredAgent: true}) {
		t.Fatal("expected discount with registered agent")
	}
}
