package activity

import (
	"context"
	"reflect"
	"testing"
)

func TestConstructors(t *testing.T) {
	component := Component{ID: "c-1", Class: "Widget"}
	actor := Identity{ActorID: "actor"}

	tests := []struct {
		name     string
		event    Event
		verb     string
		metadata map[string]any
	}{
		{"created", Created(component, actor), VerbComponentCreated, nil},
		{"updated", OptionUpdated(component, actor, "rules/remote", false, true), VerbOptionUpdated,
			map[string]any{MetaPath: "rules/remote", MetaOldValue: false, MetaNewValue: true}},
		{"updated from absent", OptionUpdated(component, actor, "a", nil, 1), VerbOptionUpdated,
			map[string]any{MetaPath: "a", MetaOldValue: nil, MetaNewValue: 1}},
		{"vetoed", MethodVetoed(component, actor, "save"), VerbMethodVetoed, map[string]any{MetaMethod: "save"}},
		{"destroyed", Destroyed(component, actor), VerbComponentDestroyed, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Verb != tt.verb || tt.event.Component.ID != "c-1" || tt.event.Actor != actor {
				t.Fatalf("unexpected event %+v", tt.event)
			}
			if !reflect.DeepEqual(tt.event.Metadata, tt.metadata) {
				t.Fatalf("expected metadata %v, got %v", tt.metadata, tt.event.Metadata)
			}
			if !tt.event.Complete() {
				t.Fatalf("expected complete event")
			}
		})
	}
}

func TestNormalizeTrimsAndCopies(t *testing.T) {
	lineage := []string{"Base", "Widget"}
	event := OptionUpdated(
		Component{ID: " c-1 ", Class: " Widget ", Lineage: lineage},
		Identity{ActorID: " actor ", UserID: " user ", TenantID: " tenant "},
		"a", 1, 2,
	)
	event.Verb = " " + event.Verb + " "
	event.Channel = " components "

	got := Normalize(event)

	if got.Verb != VerbOptionUpdated || got.Channel != "components" {
		t.Fatalf("unexpected trimming %+v", got)
	}
	if got.Component.ID != "c-1" || got.Component.Class != "Widget" {
		t.Fatalf("unexpected component %+v", got.Component)
	}
	if got.Actor != (Identity{ActorID: "actor", UserID: "user", TenantID: "tenant"}) {
		t.Fatalf("unexpected actor %+v", got.Actor)
	}
	if got.OccurredAt.IsZero() || got.OccurredAt.Location().String() != "UTC" {
		t.Fatalf("expected UTC timestamp, got %v", got.OccurredAt)
	}

	got.Metadata[MetaPath] = "changed"
	got.Component.Lineage[0] = "changed"
	if event.Metadata[MetaPath] != "a" || lineage[0] != "Base" {
		t.Fatalf("expected source event untouched")
	}
}

func TestCaptureHookVerbs(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	component := Component{ID: "c-1"}
	_ = hooks.Notify(context.Background(), Created(component, Identity{}))
	_ = hooks.Notify(context.Background(), Destroyed(component, Identity{}))

	want := []string{VerbComponentCreated, VerbComponentDestroyed}
	if got := capture.Verbs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
