package draft

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare digits", "5551234567", "5551234567"},
		{"parens and dash", "(555) 123-4567", "5551234567"},
		{"dots", "555.123.4567", "5551234567"},
		{"country code", "+1 555 123 4567", "5551234567"},
		{"partial", "555-12", "55512"},
		{"empty", "", ""},
		{"letters dropped", "555-CALL-NOW", "555"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePhone(tc.input); got != tc.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormatPhone_Progressive(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"5", "5"},
		{"555", "555"},
		{"5551", "(555) 1"},
		{"555123", "(555) 123"},
		{"5551234", "(555) 123-4"},
		{"5551234567", "(555) 123-4567"},
		{"(555) 123-4567", "(555) 123-4567"},
	}

	for _, tc := range cases {
		if got := FormatPhone(tc.input); got != tc.want {
			t.Fatalf("FormatPhone(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
