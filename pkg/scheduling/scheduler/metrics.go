package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vnykmshr/countdown/pkg/metrics"
)

// NewWithMetrics creates a new scheduler with metrics enabled.
func NewWithMetrics(name string) *Scheduler {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	return NewWithConfigAndMetrics(Config{}, name, metrics.Config{
		Enabled:  true,
		Registry: registry,
	})
}

// NewWithConfigAndMetrics creates a scheduler with custom config and metrics.
func NewWithConfigAndMetrics(cfg Config, name string, metricsConfig metrics.Config) *Scheduler {
	cfg.Name = name
	cfg.Metrics = metricsConfig.Build()
	return NewWithConfig(cfg)
}

// MetricsEnabled returns true if the scheduler records metrics.
func (s *Scheduler) MetricsEnabled() bool {
	return s.metrics != nil
}
