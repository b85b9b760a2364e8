package base

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
)

// Binding is one declaration of an events map: a plain event name or a
// "before:<method>"/"after:<method>" aspect key, and its handler.
//
// Handler may be a Handler, a func(*Event, ...any) any, a
// func(*Event, ...any), a Method, a string naming an instance method, or a
// Rule. Other values are skipped by InitEvents.
type Binding struct {
	Key     string
	Handler any
}

// Events is an ordered events declaration.
type Events []Binding

// Rule is an expression handler evaluated against the options tree. A
// before rule that evaluates to false vetoes the call.
type Rule string

// Method is an entry of an instance method table.
type Method func(b *Base, args ...any) any

// With returns a copy of e where key is bound to handler. An existing key
// keeps its position.
func (e Events) With(key string, handler any) Events {
	out := append(Events(nil), e...)
	for i := range out {
		if out[i].Key == key {
			out[i].Handler = handler
			return out
		}
	}
	return append(out, Binding{Key: key, Handler: handler})
}

// Lookup returns the handler bound to key.
func (e Events) Lookup(key string) (any, bool) {
	for _, binding := range e {
		if binding.Key == key {
			return binding.Handler, true
		}
	}
	return nil, false
}

// Keys returns declaration keys in order.
func (e Events) Keys() []string {
	keys := make([]string, len(e))
	for i, binding := range e {
		keys[i] = binding.Key
	}
	return keys
}

// Overlay merges e onto an Events destination by key.
func (e Events) Overlay(dst any) (any, bool) {
	existing, ok := dst.(Events)
	if !ok {
		return nil, false
	}
	out := existing.CloneValue().(Events)
	for _, binding := range e {
		out = out.With(binding.Key, binding.Handler)
	}
	return out, true
}

// CloneValue copies the declaration list; handlers are shared.
func (e Events) CloneValue() any {
	if e == nil {
		return Events(nil)
	}
	return append(Events{}, e...)
}

// MarshalJSON encodes the declarations as an ordered object. Method names are
// strings, rules are {"rule": expr} and function handlers are null.
func (e Events) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, binding := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(binding.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var value any
		switch handler := binding.Handler.(type) {
		case string:
			value = handler
		case Rule:
			value = map[string]string{"rule": string(handler)}
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type hookKind int

const (
	hookNone hookKind = iota
	hookBefore
	hookAfter
)

var aspectKeyPattern = regexp.MustCompile(`^(before|after):(\w+)$`)

// parseKey classifies a declaration key. Malformed tags are plain events.
func parseKey(key string) (hookKind, string) {
	match := aspectKeyPattern.FindStringSubmatch(key)
	if match == nil {
		return hookNone, key
	}
	if match[1] == "before" {
		return hookBefore, match[2]
	}
	return hookAfter, match[2]
}

// declarations normalises the accepted events forms into an ordered list.
// Maps have no order in Go, so their keys are processed sorted.
func declarations(events any) Events {
	switch typed := events.(type) {
	case nil:
		return nil
	case Events:
		return typed
	case []Binding:
		return Events(typed)
	case map[string]Handler:
		out := make(Events, 0, len(typed))
		for _, key := range sortedKeys(typed) {
			out = append(out, Binding{Key: key, Handler: typed[key]})
		}
		return out
	case map[string]any:
		out := make(Events, 0, len(typed))
		for _, key := range sortedKeys(typed) {
			out = append(out, Binding{Key: key, Handler: ruleFromTree(typed[key])})
		}
		return out
	default:
		return nil
	}
}

// ruleFromTree recognises the {"rule": expr} form produced by MarshalJSON.
func ruleFromTree(handler any) any {
	tree, ok := handler.(map[string]any)
	if !ok || len(tree) != 1 {
		return handler
	}
	if expr, ok := tree["rule"].(string); ok {
		return Rule(expr)
	}
	return handler
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
