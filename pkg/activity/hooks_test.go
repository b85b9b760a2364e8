package activity

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

var (
	errSinkDown = errors.New("sink down")
	errRejected = errors.New("rejected")
)

func widget() Component {
	return Component{ID: "w-1", Class: "Widget", Lineage: []string{"Base", "Widget"}}
}

func TestHooksNotifyShortCircuitsIncomplete(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}

	for _, event := range []Event{{}, {Verb: VerbComponentCreated}, {Component: widget()}} {
		if err := hooks.Notify(context.Background(), event); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return errSinkDown }),
		nil,
		HookFunc(func(context.Context, Event) error { return errRejected }),
	}

	err := hooks.Notify(nil, Created(widget(), Identity{}))
	if !errors.Is(err, errSinkDown) || !errors.Is(err, errRejected) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "hook 2 component.created") || !strings.Contains(msg, "hook 4") {
		t.Fatalf("expected errors tagged with hook position and verb, got %q", msg)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events))
	}
}

func TestHooksCompact(t *testing.T) {
	capture := &CaptureHook{}
	if got := (Hooks{nil, nil}).Compact(); got != nil {
		t.Fatalf("expected nil for all-nil hooks, got %v", got)
	}
	if got := (Hooks{nil, capture}).Compact(); len(got) != 1 || got[0] != capture {
		t.Fatalf("expected nil hooks dropped, got %v", got)
	}
}

func TestEmitterStampsComponentAndDefaults(t *testing.T) {
	capture := &CaptureHook{}
	actor := Identity{ActorID: "actor-1"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false}, widget(), actor)
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), Created(widget(), actor)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true}, widget(), actor)
	if err := enabled.Emit(context.Background(), Event{Verb: VerbComponentDestroyed}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(capture.Events))
	}
	got := capture.Events[0]
	if got.Channel != DefaultChannel || got.Actor != actor || !reflect.DeepEqual(got.Component, widget()) {
		t.Fatalf("expected component, actor and default channel stamped, got %+v", got)
	}
}

func TestEmitterPreservesExplicitFields(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"}, widget(), Identity{ActorID: "a"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	event := MethodVetoed(Component{ID: "other"}, Identity{ActorID: "b"}, "save")
	event.Channel = "custom"
	event.OccurredAt = at
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := capture.Events[0]
	if got.Channel != "custom" || got.Component.ID != "other" || got.Actor.ActorID != "b" {
		t.Fatalf("expected explicit fields preserved, got %+v", got)
	}
	if !got.OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at preserved, got %v", got.OccurredAt)
	}
}
