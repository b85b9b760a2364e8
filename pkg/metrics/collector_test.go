package metrics

import (
	"testing"

	base "github.com/goliatone/go-base"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCountsOutcomes(t *testing.T) {
	collector := NewCollector("test")
	registry := prometheus.NewRegistry()
	collector.MustRegister(registry)

	class := base.NewClass("Greeter",
		base.WithDefaults(base.Tree{"world": "earth"}),
		base.WithMethod("hello", func(b *base.Base, _ ...any) any {
			world, _ := b.Option("world")
			return "hello " + world.(string)
		}),
	)
	instance := base.New(class, nil, base.WithDispatchObserver(collector))
	instance.Before("hello", func(*base.Event, ...any) any {
		world, _ := instance.Option("world")
		if world == "mars" {
			return false
		}
		instance.SetOption("world", "mars")
		return nil
	})

	instance.Call("hello")
	instance.Call("hello")
	instance.Call("missing")

	cases := []struct {
		method  string
		outcome base.DispatchOutcome
		want    float64
	}{
		{"hello", base.OutcomeOK, 1},
		{"hello", base.OutcomeVetoed, 1},
		{"missing", base.OutcomeMissing, 1},
	}
	for _, tc := range cases {
		got := testutil.ToFloat64(collector.Calls().WithLabelValues("Greeter", tc.method, string(tc.outcome)))
		if got != tc.want {
			t.Fatalf("%s/%s: expected %v, got %v", tc.method, tc.outcome, tc.want, got)
		}
	}

	if n := testutil.CollectAndCount(collector.Durations()); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}
}

func TestCollectorRegisterTwiceFails(t *testing.T) {
	collector := NewCollector("")
	registry := prometheus.NewRegistry()
	if err := collector.Register(registry); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := collector.Register(registry); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestCollectorNilSafe(t *testing.T) {
	var collector *Collector
	collector.ObserveDispatch("C", "m", base.OutcomeOK, 0)
}
