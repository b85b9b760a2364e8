package base

import (
	"time"
)

// DispatchOutcome classifies how an Invoke call ended.
type DispatchOutcome string

const (
	// OutcomeOK means the original method ran.
	OutcomeOK DispatchOutcome = "ok"
	// OutcomeVetoed means a before hook returned false.
	OutcomeVetoed DispatchOutcome = "vetoed"
	// OutcomeMissing means no method was registered under the name.
	OutcomeMissing DispatchOutcome = "missing"
)

// DispatchObserver is notified after every Invoke call.
type DispatchObserver interface {
	ObserveDispatch(class, method string, outcome DispatchOutcome, duration time.Duration)
}

// DispatchObserverFunc adapts a function to DispatchObserver.
type DispatchObserverFunc func(class, method string, outcome DispatchOutcome, duration time.Duration)

// ObserveDispatch implements DispatchObserver.
func (f DispatchObserverFunc) ObserveDispatch(class, method string, outcome DispatchOutcome, duration time.Duration) {
	if f != nil {
		f(class, method, outcome, duration)
	}
}

// aspectChain is the wrapper state for one intercepted method.
type aspectChain struct {
	original Method
	before   []Handler
	after    []Handler
}

// InitEvents subscribes listeners and installs aspect hooks from events, or
// from the "events" option when events is nil. Declarations run in order;
// handlers that cannot be resolved to something callable are skipped.
func (b *Base) InitEvents(events any) *Base {
	if b.destroyed {
		return b
	}
	if events == nil {
		events, _ = b.Option(EventsKey)
	}
	for _, binding := range declarations(events) {
		handler, ok := b.resolveHandler(binding.Handler)
		if !ok {
			b.logger().Debug("skipping events declaration", "class", b.class.Name(), "key", binding.Key)
			continue
		}
		switch kind, name := parseKey(binding.Key); kind {
		case hookBefore:
			b.Before(name, handler)
		case hookAfter:
			b.After(name, handler)
		default:
			b.On(binding.Key, handler)
		}
	}
	return b
}

func (b *Base) resolveHandler(raw any) (Handler, bool) {
	switch handler := raw.(type) {
	case Handler:
		return handler, handler != nil
	case func(*Event, ...any) any:
		return handler, handler != nil
	case func(*Event, ...any):
		if handler == nil {
			return nil, false
		}
		return func(e *Event, args ...any) any {
			handler(e, args...)
			return nil
		}, true
	case Method:
		return methodHandler(handler), handler != nil
	case func(*Base, ...any) any:
		return methodHandler(handler), handler != nil
	case string:
		method, ok := b.methods[handler]
		if !ok || method == nil {
			return nil, false
		}
		return methodHandler(method), true
	case Rule:
		if handler == "" {
			return nil, false
		}
		return b.ruleHandler(handler), true
	default:
		return nil, false
	}
}

func methodHandler(method Method) Handler {
	return func(e *Event, args ...any) any {
		return method(e.Target, args...)
	}
}

// Before appends a hook that runs ahead of method. The first hook for a method
// installs its interception chain.
func (b *Base) Before(method string, handler Handler) *Base {
	if chain := b.chain(method); chain != nil && handler != nil {
		chain.before = append(chain.before, handler)
	}
	return b
}

// After appends a hook that observes the result of method.
func (b *Base) After(method string, handler Handler) *Base {
	if chain := b.chain(method); chain != nil && handler != nil {
		chain.after = append(chain.after, handler)
	}
	return b
}

func (b *Base) chain(method string) *aspectChain {
	if b.destroyed || method == "" {
		return nil
	}
	if chain, ok := b.chains[method]; ok {
		return chain
	}
	chain := &aspectChain{original: b.methods[method]}
	b.chains[method] = chain
	return chain
}

// DefineMethod adds or replaces an instance method. Hooks already installed
// for name keep wrapping the new implementation.
func (b *Base) DefineMethod(name string, method Method) *Base {
	if b.destroyed || name == "" || method == nil {
		return b
	}
	b.methods[name] = method
	if chain, ok := b.chains[name]; ok {
		chain.original = method
	}
	return b
}

// HasMethod reports whether name resolves to a method.
func (b *Base) HasMethod(name string) bool {
	return !b.destroyed && b.methods[name] != nil
}

// Call invokes method and returns its result, or nil when the call was vetoed
// or the method does not exist.
func (b *Base) Call(method string, args ...any) any {
	result, _ := b.Invoke(method, args...)
	return result
}

// Invoke runs method through its interception chain. The boolean is false
// when a before hook vetoed the call or destroyed the instance, or when the
// method does not exist.
func (b *Base) Invoke(method string, args ...any) (any, bool) {
	start := time.Now()
	if b.destroyed {
		return nil, false
	}

	original := b.methods[method]
	chain := b.chains[method]
	if chain != nil {
		original = chain.original
	}
	if original == nil {
		b.observeDispatch(method, OutcomeMissing, start)
		return nil, false
	}
	if chain == nil {
		result := original(b, args...)
		b.observeDispatch(method, OutcomeOK, start)
		return result, true
	}

	before, after := chain.before, chain.after
	callArgs := append([]any(nil), args...)
	if len(before) > 0 {
		event := &Event{Type: "before:" + method, Method: method, Target: b, Args: callArgs}
		for _, hook := range before {
			if vetoed(hook(event, args...)) {
				b.observeDispatch(method, OutcomeVetoed, start)
				b.emitVetoed(method)
				return nil, false
			}
			// a hook that destroyed the instance cancels the call
			if b.destroyed {
				b.observeDispatch(method, OutcomeVetoed, start)
				return nil, false
			}
		}
	}

	result := original(b, args...)

	if len(after) > 0 {
		event := &Event{Type: "after:" + method, Method: method, Target: b, Args: callArgs}
		for _, hook := range after {
			hook(event, result)
		}
	}
	b.observeDispatch(method, OutcomeOK, start)
	return result, true
}

func vetoed(result any) bool {
	value, ok := result.(bool)
	return ok && !value
}

func (b *Base) observeDispatch(method string, outcome DispatchOutcome, start time.Time) {
	if b.cfg.observer == nil {
		return
	}
	b.cfg.observer.ObserveDispatch(b.class.Name(), method, outcome, time.Since(start))
}
