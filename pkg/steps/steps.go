// Package steps holds the per-step validation contracts for the order wizard.
// Each step validates only its own slice of the draft and reports field-level
// errors; navigation decisions stay with the wizard controller.
package steps

import "github.com/goliatone/go-orderwizard/pkg/draft"

// Result is the outcome of validating a step against the current draft. First
// names the first invalid field in display order so callers can focus/scroll
// to it.
type Result struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	First       string            `json:"first,omitempty"`
}

// Validator is implemented by every step.
type Validator interface {
	Validate(d draft.OrderDraft) Result
}

// ok is the shared success result.
func ok() Result {
	return Result{Valid: true}
}

// failure accumulates field errors preserving insertion order for First.
type failure struct {
	fields map[string]string
	first  string
}

func (f *failure) add(field, message string) {
	if f.fields == nil {
		f.fields = make(map[string]string)
	}
	if _, exists := f.fields[field]; exists {
		return
	}
	f.fields[field] = message
	if f.first == "" {
		f.first = field
	}
}

func (f *failure) result() Result {
	if len(f.fields) == 0 {
		return ok()
	}
	return Result{FieldErrors: f.fields, First: f.first}
}
