package countdown

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vnykmshr/countdown/pkg/metrics"
)

// NewWithMetrics creates a timer that records metrics under name on a
// private Prometheus registry.
func NewWithMetrics(cfg Config, name string) (Timer, error) {
	return NewWithConfigAndMetrics(cfg, name, metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	})
}

// NewWithConfigAndMetrics creates a timer with custom config and metrics.
// The default scheduler shares the same registry.
func NewWithConfigAndMetrics(cfg Config, name string, metricsConfig metrics.Config) (Timer, error) {
	cfg.Name = name
	cfg.Metrics = metricsConfig.Build()
	return New(cfg)
}
