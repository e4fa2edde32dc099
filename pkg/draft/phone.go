package draft

import "strings"

// NormalizePhone strips every non-digit rune from raw. A leading US country
// code is dropped so the stored value is the 10-digit national number whenever
// the input carries one.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}

// FormatPhone renders a normalized 10-digit number as "(555) 123-4567".
// Partial input is formatted progressively; anything that is not 1–10 digits
// is returned unchanged.
func FormatPhone(digits string) string {
	digits = NormalizePhone(digits)
	switch {
	case digits == "":
		return ""
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return "(" + digits[:3] + ") " + digits[3:]
	case len(digits) <= 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	default:
		return digits
	}
}
