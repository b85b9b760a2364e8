package base

// AllEvents is the wildcard event name: its listeners observe every fired
// event.
const AllEvents = "all"

// Event describes a fired event or an intercepted method call.
type Event struct {
	// Type is the event name, or "before:<method>"/"after:<method>" for
	// aspect hooks.
	Type string
	// Method is the intercepted method name; empty for plain events.
	Method string
	// Target is the instance the event belongs to.
	Target *Base
	// Args holds the intercepted call arguments; nil for plain events.
	Args []any
}

// Handler receives events. Plain listeners get the fired arguments, before
// hooks the call arguments and after hooks the call result. A before hook
// returning exactly false vetoes the call; every other return value is
// ignored.
type Handler func(e *Event, args ...any) any

// Emitter registers listeners by event name and fires them synchronously in
// registration order.
type Emitter struct {
	target    *Base
	listeners map[string][]Handler
}

// NewEmitter constructs an emitter whose events carry target.
func NewEmitter(target *Base) *Emitter {
	return &Emitter{target: target}
}

// On registers handler for name. Nil handlers and empty names are ignored.
func (e *Emitter) On(name string, handler Handler) {
	if e == nil || name == "" || handler == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]Handler)
	}
	e.listeners[name] = append(e.listeners[name], handler)
}

// Off removes every listener for the given names, or all listeners when no
// name is given.
func (e *Emitter) Off(names ...string) {
	if e == nil {
		return
	}
	if len(names) == 0 {
		e.listeners = nil
		return
	}
	for _, name := range names {
		delete(e.listeners, name)
	}
}

// Has reports whether name has at least one listener.
func (e *Emitter) Has(name string) bool {
	return e != nil && len(e.listeners[name]) > 0
}

// Fire calls the listeners of name and then the wildcard listeners. Listeners
// added while firing are not called for this event. Fire returns the number
// of listeners called.
func (e *Emitter) Fire(name string, args ...any) int {
	if e == nil || name == "" || len(e.listeners) == 0 {
		return 0
	}
	listeners := e.listeners[name]
	var wildcard []Handler
	if name != AllEvents {
		wildcard = e.listeners[AllEvents]
	}

	event := &Event{Type: name, Target: e.target}
	for _, listener := range listeners {
		listener(event, args...)
	}
	for _, listener := range wildcard {
		listener(event, args...)
	}
	return len(listeners) + len(wildcard)
}
