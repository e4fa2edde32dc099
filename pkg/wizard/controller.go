package wizard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-orderwizard/pkg/draft"
	"github.com/goliatone/go-orderwizard/pkg/handoff"
	"github.com/goliatone/go-orderwizard/pkg/steps"
)

// Observer is notified after every step change. Callers use it to sync the
// `step` query parameter and scroll the viewport.
type Observer func(previous, current Step)

// Preloader speculatively loads the UI assets for a step. Failures are
// non-fatal; the controller silently retries on actual navigation.
type Preloader func(ctx context.Context, step Step) error

// Option customises the controller.
type Option func(*Controller)

// WithObserver registers the step-change hook.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		c.observer = observer
	}
}

// WithPreloader registers the speculative step loader.
func WithPreloader(preloader Preloader) Option {
	return func(c *Controller) {
		c.preloader = preloader
	}
}

// WithValidator overrides the validator for a step. Missing validators leave
// Submit free to advance, matching the controller's no-validation contract.
func WithValidator(step Step, validator steps.Validator) Option {
	return func(c *Controller) {
		if step.Valid() && validator != nil {
			c.validators[step] = validator
		}
	}
}

// WithStartStep positions the wizard from a parsed URL hint.
func WithStartStep(step Step) Option {
	return func(c *Controller) {
		if step.Valid() {
			c.current = step
		}
	}
}

// WithLogger wires structured logging for navigation events. The default is a
// no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the wizard position, the completed-step set, and the order
// draft. Steps report completion through Advance/Submit; the controller never
// validates on its own.
type Controller struct {
	mu         sync.Mutex
	current    Step
	completed  map[Step]struct{}
	draft      draft.OrderDraft
	validators map[Step]steps.Validator
	observer   Observer
	preloader  Preloader
	preloaded  map[Step]struct{}
	restored   bool
	logger     *zap.Logger
}

// New constructs a Controller starting at the first step with a default
// draft.
func New(options ...Option) *Controller {
	c := &Controller{
		current:    FirstStep,
		completed:  make(map[Step]struct{}),
		draft:      draft.New(),
		validators: make(map[Step]steps.Validator),
		preloaded:  make(map[Step]struct{}),
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.preloadNext(c.current)
	return c
}

// Current returns the step currently mounted.
func (c *Controller) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Draft returns a copy of the aggregate form record.
func (c *Controller) Draft() draft.OrderDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Dispatch folds actions into the draft and returns the updated copy.
func (c *Controller) Dispatch(actions ...draft.Action) draft.OrderDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft.Apply(c.draft, actions...)
	return c.draft
}

// Completed returns the completed step numbers in ascending order.
func (c *Controller) Completed() []Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Step, 0, len(c.completed))
	for step := FirstStep; step <= LastStep; step++ {
		if _, ok := c.completed[step]; ok {
			out = append(out, step)
		}
	}
	return out
}

// IsCompleted reports whether the customer validated forward from step.
func (c *Controller) IsCompleted(step Step) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.completed[step]
	return ok
}

// Advance marks from complete and moves to the following step. It performs no
// validation; steps call it only after their own Validate succeeds.
func (c *Controller) Advance(from Step) Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !from.Valid() || from != c.current {
		return c.current
	}
	c.completed[from] = struct{}{}
	if from == LastStep {
		return c.current
	}
	c.setStep(from.Next())
	return c.current
}

// Submit applies the step's draft updates, validates, and advances when the
// step reports valid. It is the step-component role expressed as one call.
func (c *Controller) Submit(from Step, actions ...draft.Action) steps.Result {
	c.mu.Lock()
	if !from.Valid() || from != c.current {
		c.mu.Unlock()
		return steps.Result{FieldErrors: map[string]string{"step": "not the active step"}, First: "step"}
	}
	c.draft = draft.Apply(c.draft, actions...)
	validator := c.validators[from]
	d := c.draft
	c.mu.Unlock()

	result := steps.Result{Valid: true}
	if validator != nil {
		result = validator.Validate(d)
	}
	if result.Valid {
		c.Advance(from)
	} else {
		c.logger.Debug("step blocked",
			zap.Stringer("step", from),
			zap.String("first_error", result.First),
		)
	}
	return result
}

// Retreat moves back one step. The completion set is never mutated, so
// revisiting a prior step does not invalidate later ones.
func (c *Controller) Retreat(from Step) Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !from.Valid() || from != c.current || from == FirstStep {
		return c.current
	}
	c.setStep(from.Prev())
	return c.current
}

// JumpTo moves directly to target when it is completed or at/behind the
// current step. Anything else is a no-op.
func (c *Controller) JumpTo(target Step) Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !target.Valid() {
		return c.current
	}
	if _, done := c.completed[target]; !done && target > c.current {
		return c.current
	}
	if target != c.current {
		c.setStep(target)
	}
	return c.current
}

// StartOver discards the draft and completion marks and returns to the first
// step.
func (c *Controller) StartOver() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft.New()
	c.completed = make(map[Step]struct{})
	c.restored = false
	if c.current != FirstStep {
		c.setStep(FirstStep)
	}
}

// Snapshot captures the in-flight state for the hand-off envelope written
// before an external redirect.
func (c *Controller) Snapshot() handoff.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	completed := make([]int, 0, len(c.completed))
	for step := FirstStep; step <= LastStep; step++ {
		if _, ok := c.completed[step]; ok {
			completed = append(completed, int(step))
		}
	}
	return handoff.Envelope{
		Draft:      c.draft,
		ReturnStep: int(c.current),
		Completed:  completed,
		SavedAt:    time.Now().UTC(),
	}
}

// Restore merges a hand-off envelope over the controller defaults. It applies
// at most once per controller so a stale hint is never replayed.
func (c *Controller) Restore(env handoff.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restored {
		return false
	}
	c.restored = true

	c.draft = env.Draft
	for _, raw := range env.Completed {
		step := Step(raw)
		if step.Valid() {
			c.completed[step] = struct{}{}
		}
	}
	target := Step(env.ReturnStep)
	if !target.Valid() {
		target = FirstStep
	}
	if target != c.current {
		c.setStep(target)
	}
	c.logger.Info("restored wizard state",
		zap.Stringer("step", target),
		zap.Int("completed", len(env.Completed)),
	)
	return true
}

// setStep is called with c.mu held.
func (c *Controller) setStep(next Step) {
	previous := c.current
	c.current = next

	// Navigating to a step whose preload failed retries the load; errors on
	// the actual navigation path are still non-fatal.
	if c.preloader != nil {
		if _, ok := c.preloaded[next]; !ok {
			if err := c.preloader(context.Background(), next); err == nil {
				c.preloaded[next] = struct{}{}
			}
		}
	}

	if c.observer != nil {
		c.observer(previous, next)
	}
	c.logger.Debug("step changed",
		zap.Stringer("from", previous),
		zap.Stringer("to", next),
	)
	c.preloadNext(next)
}

// preloadNext speculatively loads the following step off the hot path.
func (c *Controller) preloadNext(current Step) {
	if c.preloader == nil || current >= LastStep {
		return
	}
	next := current.Next()
	go func() {
		if err := c.preloader(context.Background(), next); err != nil {
			return
		}
		c.mu.Lock()
		c.preloaded[next] = struct{}{}
		c.mu.Unlock()
	}()
}
