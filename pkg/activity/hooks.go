package activity

import (
	"context"
	"errors"
	"fmt"
)

// Hook receives component activity.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify calls fn.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans an event out to every hook in order.
type Hooks []Hook

// Notify normalizes event and delivers it to each hook. Incomplete events
// are dropped. Every hook runs; failures are joined, each tagged with the
// hook position and the verb.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}
	event = Normalize(event)
	if !event.Complete() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for i, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("activity: hook %d %s: %w", i, event.Verb, err))
		}
	}
	return errors.Join(errs...)
}

// Compact returns a copy of h without nil hooks, or nil when none remain.
func (h Hooks) Compact() Hooks {
	var out Hooks
	for _, hook := range h {
		if hook != nil {
			out = append(out, hook)
		}
	}
	return out
}
