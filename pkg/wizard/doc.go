// Package wizard implements the order-form controller: step position, the
// completed-step set, draft ownership, speculative step preloading, and
// restoration from the hand-off envelope after an external auth redirect.
package wizard
