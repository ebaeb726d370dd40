/*
Package countdown is a countdown timer library for Go with drift-corrected
ticking and an explicit lifecycle.

Timers (pkg/countdown):
  - Lifecycle: idle, running, paused and finished, with strict or lenient
    handling of illegal transitions
  - Events: one handler per event kind, fired after every transition

Scheduling (pkg/scheduling):
  - scheduler: Drift-corrected periodic signals, one goroutine per registration
  - trigger: Cron expressions that restart a timer on a schedule

Integration:
  - notify: Publish lifecycle events to Redis pub/sub as JSON or CBOR
  - metrics: Prometheus instrumentation for timers, schedulers and triggers

Example usage:

	import "github.com/vnykmshr/countdown/pkg/countdown"

	t, _ := countdown.New(countdown.Config{
		StartTime: 90,
		OnFinish: func(e countdown.Event) error {
			fmt.Println("done")
			return nil
		},
	})
	_ = t.Start()
*/
package countdown
