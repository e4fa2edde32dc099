package wizard

import "strconv"

// Step numbers the six wizard screens. Values are 1-based so they can be
// mirrored straight into the `step` query parameter.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepServices
	StepAccount
	StepDetails
	StepPayment
	StepConfirmation
)

// FirstStep and LastStep bound the wizard.
const (
	FirstStep = StepBasicInfo
	LastStep  = StepConfirmation
)

// StepParam is the query parameter that reflects and drives wizard position.
const StepParam = "step"

// Valid reports whether s is inside the wizard range.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Next returns the following step, clamped at the last.
func (s Step) Next() Step {
	if s >= LastStep {
		return LastStep
	}
	return s + 1
}

// Prev returns the preceding step, clamped at the first.
func (s Step) Prev() Step {
	if s <= FirstStep {
		return FirstStep
	}
	return s - 1
}

// String implements fmt.Stringer.
func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic-info"
	case StepServices:
		return "services"
	case StepAccount:
		return "account"
	case StepDetails:
		return "llc-details"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseStep interprets a raw `step` query value. Anything out of range,
// including garbage, clamps to the first step.
func ParseStep(raw string) Step {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return FirstStep
	}
	step := Step(value)
	if !step.Valid() {
		return FirstStep
	}
	return step
}
