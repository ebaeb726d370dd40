// Package metrics provides Prometheus instrumentation for countdown components.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "countdown"

// Registry holds all metric instances for countdown components.
type Registry struct {
	// Timer Metrics
	TimersCreated    prometheus.Counter
	TimerEvents      *prometheus.CounterVec
	TimerRemaining   *prometheus.GaugeVec
	TimerHandlerErrs *prometheus.CounterVec

	// Scheduler Metrics
	SchedulerSignals *prometheus.CounterVec
	SchedulerDrift   *prometheus.HistogramVec
	SchedulerActive  *prometheus.GaugeVec

	// Trigger Metrics
	TriggerFirings *prometheus.CounterVec
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry bound to prometheus.DefaultRegisterer.
// It is created on first use so that importing the package registers nothing.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithNamespace(reg, DefaultNamespace)
}

// NewRegistryWithNamespace creates a registry whose metric names start with ns.
func NewRegistryWithNamespace(reg prometheus.Registerer, ns string) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Timer Metrics
		TimersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "timer",
				Name:      "created_total",
				Help:      "Total number of timers constructed",
			},
		),

		TimerEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "timer",
				Name:      "events_total",
				Help:      "Total number of lifecycle events fired",
			},
			[]string{"timer_name", "event"},
		),

		TimerRemaining: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Subsystem: "timer",
				Name:      "remaining_seconds",
				Help:      "Seconds left on the countdown",
			},
			[]string{"timer_name"},
		),

		TimerHandlerErrs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "timer",
				Name:      "handler_errors_total",
				Help:      "Total number of event handler failures",
			},
			[]string{"timer_name", "event"},
		),

		// Scheduler Metrics
		SchedulerSignals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "scheduler",
				Name:      "signals_total",
				Help:      "Total number of periodic signals delivered",
			},
			[]string{"scheduler_name"},
		),

		SchedulerDrift: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Subsystem: "scheduler",
				Name:      "drift_seconds",
				Help:      "Lateness of each signal relative to its ideal absolute instant",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"scheduler_name"},
		),

		SchedulerActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Subsystem: "scheduler",
				Name:      "active_registrations",
				Help:      "Number of live periodic registrations",
			},
			[]string{"scheduler_name"},
		),

		// Trigger Metrics
		TriggerFirings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "trigger",
				Name:      "firings_total",
				Help:      "Total number of cron trigger firings",
			},
			[]string{"trigger_name"},
		),
	}
}
