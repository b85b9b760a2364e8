package base

import "github.com/goliatone/go-base/pkg/activity"

// WithActivityHooks attaches activity hooks to the instance. Nil hooks are
// dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	hooks = hooks.Compact()
	return func(cfg *config) {
		cfg.activityHooks = hooks
	}
}

// WithActivityConfig overrides activity emission defaults. Emission is
// enabled by default whenever hooks are configured.
func WithActivityConfig(activityConfig activity.Config) Option {
	return func(cfg *config) {
		cfg.activityConfig = activityConfig
	}
}

// WithActivityIdentity attributes every emitted activity event to identity.
func WithActivityIdentity(identity activity.Identity) Option {
	return func(cfg *config) {
		cfg.activityIdentity = identity
	}
}

// ActivityHooks returns a copy of the instance's activity hooks.
func (b *Base) ActivityHooks() activity.Hooks {
	if b == nil {
		return nil
	}
	return b.cfg.activityHooks.Compact()
}

// emit sends event through the instance emitter. Hook failures never fail
// the operation that produced the event.
func (b *Base) emit(event activity.Event) {
	if !b.activity.Enabled() {
		return
	}
	if err := b.activity.Emit(b.cfg.ctx, event); err != nil {
		b.logger().Warn("activity hook failed", "class", b.class.Name(), "verb", event.Verb, "error", err)
	}
}

func (b *Base) emitCreated() {
	b.emit(activity.Created(b.activity.Component(), b.activity.Actor()))
}

func (b *Base) emitOptionUpdated(change Change) {
	if !b.activity.Enabled() {
		return
	}
	b.emit(activity.OptionUpdated(b.activity.Component(), b.activity.Actor(), change.Path, change.Old, change.New))
}

func (b *Base) emitVetoed(method string) {
	b.emit(activity.MethodVetoed(b.activity.Component(), b.activity.Actor(), method))
}

func (b *Base) emitDestroyed() {
	b.emit(activity.Destroyed(b.activity.Component(), b.activity.Actor()))
}
