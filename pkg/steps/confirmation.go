package steps

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-orderwizard/pkg/draft"
)

// OrderPersister stores the finalized order. The storage backend is external.
type OrderPersister interface {
	SaveOrder(ctx context.Context, d draft.OrderDraft) error
}

// OrderNotifier sends the post-purchase notification.
type OrderNotifier interface {
	NotifyOrder(ctx context.Context, d draft.OrderDraft) error
}

// Confirmation is the terminal step. Validation always passes; Finalize runs
// persistence and notification side effects exactly once per mount.
type Confirmation struct {
	Persister OrderPersister
	Notifier  OrderNotifier

	once   sync.Once
	result draft.OrderDraft
	err    error
	done   bool
}

// Validate implements Validator.
func (c *Confirmation) Validate(d draft.OrderDraft) Result {
	return ok()
}

// Finalize stamps an order reference, persists the order, and sends the
// notification. Repeat calls return the first outcome without re-running the
// side effects.
func (c *Confirmation) Finalize(ctx context.Context, d draft.OrderDraft) (draft.OrderDraft, error) {
	c.once.Do(func() {
		if d.OrderID == "" {
			d = draft.Apply(d, draft.SetOrderID{ID: uuid.NewString()})
		}
		if c.Persister != nil {
			if err := c.Persister.SaveOrder(ctx, d); err != nil {
				c.err = fmt.Errorf("confirmation: save order: %w", err)
				c.result = d
				c.done = true
				return
			}
		}
		if c.Notifier != nil {
			if err := c.Notifier.NotifyOrder(ctx, d); err != nil {
				c.err = fmt.Errorf("confirmation: notify order: %w", err)
			}
		}
		c.result = d
		c.done = true
	})
	return c.result, c.err
}

// Finalized reports whether Finalize already ran.
func (c *Confirmation) Finalized() bool {
	return c.done
}
