package pricing

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// StateFee is the filing-fee record for one formation state. Amounts are
// cents; RushFeeCents and RushDays stay nil when rush filing is unavailable.
type StateFee struct {
	StateCode     string `json:"stateCode" yaml:"stateCode"`
	FilingCents   int64  `json:"filingFee" yaml:"filingFee"`
	RushCents     *int64 `json:"rushFee,omitempty" yaml:"rushFee,omitempty"`
	RushAvailable bool   `json:"rushAvailable" yaml:"rushAvailable"`
	StandardDays  int    `json:"standardDays" yaml:"standardDays"`
	RushDays      *int   `json:"rushDays,omitempty" yaml:"rushDays,omitempty"`
}

// ErrUnknownState reports a fee lookup for a state the source does not carry.
var ErrUnknownState = errors.New("pricing: unknown state")

// FeeSource resolves state filing fees. Lookups are read-only; a failure
// leaves the draft's fee fields unset and never blocks navigation.
type FeeSource interface {
	StateFee(ctx context.Context, stateCode string) (StateFee, error)
	StateFees(ctx context.Context) ([]StateFee, error)
}

// StaticFees is an in-memory FeeSource backed by a fixed table. The catalog
// loader produces one; tests and the CLI use it directly.
type StaticFees struct {
	fees map[string]StateFee
}

// NewStaticFees builds a StaticFees table. State codes are upper-cased.
func NewStaticFees(fees []StateFee) *StaticFees {
	table := make(map[string]StateFee, len(fees))
	for _, fee := range fees {
		code := strings.ToUpper(strings.TrimSpace(fee.StateCode))
		if code == "" {
			continue
		}
		fee.StateCode = code
		table[code] = fee
	}
	return &StaticFees{fees: table}
}

// StateFee implements FeeSource.
func (s *StaticFees) StateFee(_ context.Context, stateCode string) (StateFee, error) {
	fee, ok := s.fees[strings.ToUpper(strings.TrimSpace(stateCode))]
	if !ok {
		return StateFee{}, ErrUnknownState
	}
	return fee, nil
}

// StateFees implements FeeSource, returning the table in code order.
func (s *StaticFees) StateFees(_ context.Context) ([]StateFee, error) {
	out := make([]StateFee, 0, len(s.fees))
	for _, fee := range s.fees {
		out = append(out, fee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StateCode < out[j].StateCode })
	return out, nil
}
