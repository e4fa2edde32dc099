package steps

import (
	"testing"

	"github.com/goliatone/go-orderwizard/pkg/draft"
)

func validBasicDraft() draft.OrderDraft {
	return draft.Apply(draft.New(),
		draft.SetState{Code: "TX"},
		draft.SetCompanyName{Name: "Acme LLC"},
		draft.SetContact{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "(555) 123-4567",
		},
	)
}

func TestBasicInfo_ValidDraft(t *testing.T) {
	res := BasicInfo{}.Validate(validBasicDraft())
	if !res.Valid {
		t.Fatalf("expected valid, got errors %v", res.FieldErrors)
	}
}

func TestBasicInfo_MissingFields(t *testing.T) {
	res := BasicInfo{}.Validate(draft.New())
	if res.Valid {
		t.Fatal("expected invalid draft")
	}
	for _, field := range []string{"stateCode", "companyName", "firstName", "lastName", "email", "phone"} {
		if _, ok := res.FieldErrors[field]; !ok {
			t.Fatalf("expected error for %q, got %v", field, res.FieldErrors)
		}
	}
	if res.First != "stateCode" {
		t.Fatalf("expected first invalid field stateCode, got %q", res.First)
	}
}

func TestBasicInfo_DeferredNameSkipsNameRequirement(t *testing.T) {
	d := draft.Apply(validBasicDraft(), draft.DeferCompanyName{Deferred: true})
	res := BasicInfo{}.Validate(d)
	if !res.Valid {
		t.Fatalf("expected valid with deferred name, got %v", res.FieldErrors)
	}
}

func TestBasicInfo_EmailAndPhone(t *testing.T) {
	cases := []struct {
		name  string
		email string
		phone string
		field string
	}{
		{"bad email", "not-an-email", "5551234567", "email"},
		{"email missing domain", "ada@", "5551234567", "email"},
		{"short phone", "ada@example.com", "555123", "phone"},
		{"letters only phone", "ada@example.com", "CALL ME", "phone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validBasicDraft()
			d.Email = tc.email
			d.Phone = tc.phone
			res := BasicInfo{}.Validate(d)
			if res.Valid {
				t.Fatal("expected invalid")
			}
			if _, ok := res.FieldErrors[tc.field]; !ok {
				t.Fatalf("expected error for %q, got %v", tc.field, res.FieldErrors)
			}
		})
	}
}

func TestBasicInfo_PhoneFormattingPunctuationAccepted(t *testing.T) {
	for _, input := range []string{"5551234567", "(555) 123-4567", "555.123.4567", "+1 (555) 123-4567"} {
		d := validBasicDraft()
		d.Phone = input
		if res := (BasicInfo{}).Validate(d); !res.Valid {
			t.Fatalf("expected %q to validate, got %v", input, res.FieldErrors)
		}
	}
}
