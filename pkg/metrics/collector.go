// Package metrics exports method dispatch outcomes as prometheus metrics.
package metrics

import (
	"time"

	base "github.com/goliatone/go-base"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts Invoke outcomes and records their latency. It implements
// base.DispatchObserver; pass it to base.WithDispatchObserver.
type Collector struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ base.DispatchObserver = (*Collector)(nil)

// NewCollector builds the metric vectors under namespace ("base" when empty).
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "base"
	}
	return &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "method_calls_total",
				Help:      "Method invocations by class, method and outcome.",
			},
			[]string{"class", "method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "method_call_duration_seconds",
				Help:      "Method invocation latency including hooks.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"class", "method"},
		),
	}
}

// Register adds the collector's metrics to registerer.
func (c *Collector) Register(registerer prometheus.Registerer) error {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if err := registerer.Register(c.calls); err != nil {
		return err
	}
	return registerer.Register(c.duration)
}

// MustRegister is Register that panics on error.
func (c *Collector) MustRegister(registerer prometheus.Registerer) *Collector {
	if err := c.Register(registerer); err != nil {
		panic(err)
	}
	return c
}

// ObserveDispatch implements base.DispatchObserver.
func (c *Collector) ObserveDispatch(class, method string, outcome base.DispatchOutcome, duration time.Duration) {
	if c == nil {
		return
	}
	c.calls.WithLabelValues(class, method, string(outcome)).Inc()
	if outcome == base.OutcomeMissing {
		return
	}
	c.duration.WithLabelValues(class, method).Observe(duration.Seconds())
}

// Calls exposes the outcome counter vector.
func (c *Collector) Calls() *prometheus.CounterVec {
	return c.calls
}

// Durations exposes the latency histogram vector.
func (c *Collector) Durations() *prometheus.HistogramVec {
	return c.duration
}
