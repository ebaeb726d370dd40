// Package metrics provides Prometheus instrumentation for countdown components.
//
// This package enables monitoring of timers, the drift-corrected scheduler
// and cron triggers through Prometheus metrics.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Timer with metrics
//	t, err := countdown.NewWithMetrics(countdown.Config{StartTime: 90}, "tea")
//
//	// Scheduler with metrics
//	s := scheduler.NewWithMetrics("ticks")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":9090", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//	t, err := countdown.New(countdown.Config{StartTime: 10, Metrics: config.Build()})
//
// # Available Metrics
//
// ## Timer Metrics
//
//   - countdown_timer_created_total: Total number of timers constructed
//   - countdown_timer_events_total: Lifecycle events fired, by event kind
//   - countdown_timer_remaining_seconds: Seconds left on the countdown
//   - countdown_timer_handler_errors_total: Event handler failures
//
// ## Scheduler Metrics
//
//   - countdown_scheduler_signals_total: Periodic signals delivered
//   - countdown_scheduler_drift_seconds: Lateness of each signal against its ideal instant
//   - countdown_scheduler_active_registrations: Live periodic registrations
//
// ## Trigger Metrics
//
//   - countdown_trigger_firings_total: Cron trigger firings
//
// # Labels
//
//   - timer_name: User-provided name for the timer instance
//   - event: Lifecycle event kind ("create", "start", "pause", "tick", "finish", "reset")
//   - scheduler_name: User-provided name for the scheduler instance
//   - trigger_name: User-provided name for the cron trigger
package metrics
