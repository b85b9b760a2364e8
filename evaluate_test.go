package base

import (
	"errors"
	"strings"
	"testing"
)

func widgetInstance(opts ...Option) *Base {
	class := NewClass("Widget", WithDefaults(Tree{
		"enabled": true,
		"limits":  Tree{"daily": 80},
		"name":    "dashboard",
	}))
	return New(class, nil, opts...)
}

func TestEvaluateDefaultsToExpr(t *testing.T) {
	var events []EvaluatorLogEvent
	instance := widgetInstance(WithEvaluatorLogger(EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		events = append(events, event)
	})))

	response, err := instance.Evaluate("enabled && limits.daily > 50")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if response.Value != true {
		t.Fatalf("expected true, got %v", response.Value)
	}
	if len(events) != 1 || events[0].Engine != "expr" || events[0].Class != "Widget" {
		t.Fatalf("unexpected evaluator log %+v", events)
	}
}

func TestEvaluateWithContext(t *testing.T) {
	instance := widgetInstance()
	response, err := instance.EvaluateWith(RuleContext{
		Args: []any{100},
		Vars: map[string]any{"source": "test"},
	}, `limits.daily < args[0] && source == "test" && class == "Widget" && options.name == "dashboard"`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if response.Value != true {
		t.Fatalf("expected true, got %v", response.Value)
	}
}

func TestRuleVariablesShadowOptionKeys(t *testing.T) {
	instance := New(NewClass("Widget"), Tree{"class": "primary", "event": "click"})
	response, err := instance.Evaluate(`class == "Widget" && options.class == "primary" && event.type == "" && options.event == "click"`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if response.Value != true {
		t.Fatalf("expected rule variables to win over option keys, got %v", response.Value)
	}
}

func TestEvaluateWithCEL(t *testing.T) {
	instance := widgetInstance(WithEvaluator(NewCELEvaluator()))
	response, err := instance.Evaluate(`enabled && name == "dashboard"`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if response.Value != true {
		t.Fatalf("expected true, got %v", response.Value)
	}
}

func TestEvaluateErrors(t *testing.T) {
	instance := widgetInstance()
	if _, err := instance.Evaluate(""); err == nil {
		t.Fatalf("expected empty expression error")
	}

	_, err := instance.Evaluate("limits.daily >")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != "expr" || evalErr.Class != "Widget" || evalErr.Event != "" {
		t.Fatalf("expected EvaluationError with metadata, got %v", err)
	}

	instance.Destroy()
	if _, err := instance.Evaluate("enabled"); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("expected ErrDestroyed, got %v", err)
	}
}

func TestEvaluateUsesProgramCache(t *testing.T) {
	cache := NewMemoryProgramCache()
	instance := widgetInstance(WithProgramCache(cache))

	for i := 0; i < 3; i++ {
		if _, err := instance.Evaluate("limits.daily * 2"); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached program, got %d", cache.Len())
	}
}

func TestCELProgramsAreCachedPerOptionKeySet(t *testing.T) {
	cache := NewMemoryProgramCache()
	instance := widgetInstance(WithEvaluator(NewCELEvaluator(UsingProgramCache(cache))))

	if _, err := instance.Evaluate("enabled"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if _, err := instance.Evaluate("enabled"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	instance.SetOption("quota", 5)
	response, err := instance.Evaluate("enabled && quota == 5")
	if err != nil {
		t.Fatalf("evaluate after adding a key: %v", err)
	}
	if response.Value != true {
		t.Fatalf("expected true, got %v", response.Value)
	}
	if _, err := instance.Evaluate("enabled"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if cache.Len() != 3 {
		t.Fatalf("expected programs keyed by expression and key set, got %d", cache.Len())
	}
}

func TestEvaluateCustomFunction(t *testing.T) {
	instance := widgetInstance(WithCustomFunction("shout", func(args ...any) (any, error) {
		return strings.ToUpper(args[0].(string)), nil
	}))
	response, err := instance.Evaluate(`shout(name)`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if response.Value != "DASHBOARD" {
		t.Fatalf("expected DASHBOARD, got %v", response.Value)
	}
}

func TestCELCustomFunction(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("clamp", func(args ...any) (any, error) {
		value, limit := args[0].(int64), args[1].(int64)
		if value > limit {
			return limit, nil
		}
		return value, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	instance := widgetInstance(WithEvaluator(NewCELEvaluator(UsingFunctions(registry))))
	response, err := instance.Evaluate(`clamp(limits.daily, 50)`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if response.Value != int64(50) {
		t.Fatalf("expected 50, got %v (%T)", response.Value, response.Value)
	}
}

func TestFunctionRegistryRejectsInvalidNames(t *testing.T) {
	registry := NewFunctionRegistry()
	noop := func(...any) (any, error) { return nil, nil }
	for _, name := range []string{"", "with-dash", "1st", RuleOptions, RuleEvent} {
		if err := registry.Register(name, noop); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
	if err := registry.Register("ok", nil); err == nil {
		t.Fatalf("expected nil function to be rejected")
	}
	if err := registry.Register("ok", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("ok", noop); err == nil {
		t.Fatalf("expected duplicate to be rejected")
	}
}

func TestInvalidCustomFunctionIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	widgetInstance(WithLogger(logger), WithCustomFunction("args", func(...any) (any, error) { return nil, nil }))
	if len(logger.warnings) != 1 {
		t.Fatalf("expected invalid function logged, got %v", logger.warnings)
	}
}

func TestEvaluatorEngineName(t *testing.T) {
	cases := map[string]Evaluator{
		"expr":    NewExprEvaluator(),
		"cel":     NewCELEvaluator(),
		"custom":  &recordingEvaluator{},
		"unknown": nil,
	}
	for want, evaluator := range cases {
		if got := evaluatorEngineName(evaluator); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
