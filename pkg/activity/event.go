package activity

import (
	"strings"
	"time"
)

// Verbs emitted over a component's lifetime.
const (
	VerbComponentCreated   = "component.created"
	VerbOptionUpdated      = "component.option.updated"
	VerbMethodVetoed       = "component.method.vetoed"
	VerbComponentDestroyed = "component.destroyed"
)

// ObjectTypeComponent is the object type sinks record for component events.
const ObjectTypeComponent = "component"

// Metadata keys set by the event constructors.
const (
	MetaPath     = "path"
	MetaOldValue = "old_value"
	MetaNewValue = "new_value"
	MetaMethod   = "method"
)

// Identity is the actor an event is attributed to. Ids are strings so call
// sites are not tied to a UUID type.
type Identity struct {
	ActorID  string
	UserID   string
	TenantID string
}

// Component identifies the instance an event is about.
type Component struct {
	ID      string
	Class   string
	Lineage []string
}

// Event is one component activity occurrence.
type Event struct {
	Verb       string
	Component  Component
	Actor      Identity
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Created reports a new component instance.
func Created(component Component, actor Identity) Event {
	return Event{Verb: VerbComponentCreated, Component: component, Actor: actor}
}

// OptionUpdated reports a write at path. A nil old or new value is kept, as
// null is a valid option value.
func OptionUpdated(component Component, actor Identity, path string, oldValue, newValue any) Event {
	return Event{
		Verb:      VerbOptionUpdated,
		Component: component,
		Actor:     actor,
		Metadata: map[string]any{
			MetaPath:     path,
			MetaOldValue: oldValue,
			MetaNewValue: newValue,
		},
	}
}

// MethodVetoed reports a call cancelled by a before hook.
func MethodVetoed(component Component, actor Identity, method string) Event {
	return Event{
		Verb:      VerbMethodVetoed,
		Component: component,
		Actor:     actor,
		Metadata:  map[string]any{MetaMethod: method},
	}
}

// Destroyed reports a destroyed component instance.
func Destroyed(component Component, actor Identity) Event {
	return Event{Verb: VerbComponentDestroyed, Component: component, Actor: actor}
}

// Complete reports whether the event names a verb and a component.
func (e Event) Complete() bool {
	return e.Verb != "" && e.Component.ID != ""
}

// Normalize trims identifiers, copies metadata and lineage, and stamps
// OccurredAt in UTC when unset.
func Normalize(event Event) Event {
	out := event
	out.Verb = strings.TrimSpace(event.Verb)
	out.Channel = strings.TrimSpace(event.Channel)
	out.Component = Component{
		ID:      strings.TrimSpace(event.Component.ID),
		Class:   strings.TrimSpace(event.Component.Class),
		Lineage: cloneStrings(event.Component.Lineage),
	}
	out.Actor = Identity{
		ActorID:  strings.TrimSpace(event.Actor.ActorID),
		UserID:   strings.TrimSpace(event.Actor.UserID),
		TenantID: strings.TrimSpace(event.Actor.TenantID),
	}
	out.Metadata = cloneMap(event.Metadata)
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now().UTC()
	}
	return out
}

func cloneStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	return append([]string(nil), src...)
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
