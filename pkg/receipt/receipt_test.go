package receipt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-orderwizard/pkg/draft"
	"github.com/goliatone/go-orderwizard/pkg/pricing"
	"github.com/goliatone/go-orderwizard/pkg/receipt"
)

func confirmedDraft() draft.OrderDraft {
	stateFee := int64(10000)
	d := draft.New()
	d.CompanyName = "Acme Holdings"
	d.FirstName = "Ada"
	d.LastName = "Lovelace"
	d.Email = "ada@example.com"
	d.Phone = "5551234567"
	d.StateCode = "WY"
	d.StateFeeCents = &stateFee
	d.Services.EIN = true
	d.OrderID = "ord-123"
	d.Payment = &draft.Payment{TransactionID: "pi_1", Provider: "stripe"}
	return d
}

func newRenderer(t *testing.T) *receipt.Renderer {
	t.Helper()
	r, err := receipt.New(pricing.DefaultCatalog(), receipt.WithClock(func() time.Time {
		return time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderText(t *testing.T) {
	out, err := newRenderer(t).Render(receipt.TemplateText, confirmedDraft())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Order ord-123 confirmed March 14, 2024",
		"Acme Holdings",
		"Formation state: WY",
		"WY State Filing Fee: $100.00",
		"EIN Filing: $79.00",
		"Charged today: $199.99",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := newRenderer(t).Render(receipt.TemplateHTML, confirmedDraft())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<strong>ord-123</strong>") {
		t.Errorf("output missing order id\n%s", out)
	}
	if !strings.Contains(out, "Thanks, Ada!") {
		t.Errorf("output missing greeting\n%s", out)
	}
}

func TestRenderSanitizesFreeText(t *testing.T) {
	d := confirmedDraft()
	d.CompanyName = `Acme <script>alert("x")</script> LLC`
	d.Address.Purpose = "<b>consulting</b>"

	out, err := newRenderer(t).Render(receipt.TemplateHTML, d)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Error("script tag survived sanitization")
	}
	if strings.Contains(out, "<b>consulting</b>") {
		t.Error("markup in business purpose survived sanitization")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := newRenderer(t).Render("nope", confirmedDraft()); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestSubject(t *testing.T) {
	d := confirmedDraft()
	if got := receipt.Subject(d); got != "Your LLC order for Acme Holdings is confirmed" {
		t.Errorf("subject = %q", got)
	}

	d.CompanyName = ""
	d.NoNameYet = true
	if got := receipt.Subject(d); got != "Your LLC order is confirmed" {
		t.Errorf("deferred-name subject = %q", got)
	}
}
