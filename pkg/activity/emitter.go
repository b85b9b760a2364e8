package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without an explicit channel.
const DefaultChannel = "components"

// Config controls emission. A zero Config disables emission.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter sends the events of one component to its hooks, stamping the
// component, the actor and the default channel.
type Emitter struct {
	hooks     Hooks
	channel   string
	component Component
	actor     Identity
}

// NewEmitter returns an emitter for component, or a disabled emitter when
// cfg is disabled or there are no hooks.
func NewEmitter(hooks Hooks, cfg Config, component Component, actor Identity) *Emitter {
	hooks = hooks.Compact()
	if !cfg.Enabled || len(hooks) == 0 {
		return &Emitter{}
	}
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &Emitter{hooks: hooks, channel: channel, component: component, actor: actor}
}

// Enabled reports whether Emit reaches any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Component returns the component stamped on emitted events.
func (e *Emitter) Component() Component {
	if e == nil {
		return Component{}
	}
	return e.component
}

// Actor returns the identity stamped on emitted events.
func (e *Emitter) Actor() Identity {
	if e == nil {
		return Identity{}
	}
	return e.actor
}

// Emit delivers event. Missing component, actor and channel fields are
// filled from the emitter.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if event.Component.ID == "" {
		event.Component = e.component
	}
	if event.Actor == (Identity{}) {
		event.Actor = e.actor
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
