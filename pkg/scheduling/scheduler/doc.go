/*
Package scheduler provides a drift-corrected periodic signal for Go applications.

A naive loop that sleeps for the interval after each callback drifts: every
iteration adds the callback's own running time. The scheduler instead
records the instant T0 at which a registration starts and, before the n-th
signal, waits until T0 + n*interval. Work that overruns one interval
shortens the next wait instead of shifting every later signal.

Basic Usage:

	s := scheduler.New()

	h, err := s.Start(func() {
		fmt.Println("tick")
	}, time.Second)
	if err != nil {
		return err
	}
	defer h.Cancel()

Isolation:

Each registration runs on its own goroutine and calls the callback
synchronously on it, so callbacks of one registration never overlap and a
slow caller never delays signal delivery. Cancel stops the registration; no
signal begins after Cancel returns, and Done reports when the goroutine has
exited:

	h.Cancel()
	<-h.Done()

Cancel is safe to call from inside the callback.

Testing:

The time source is a clock.Clock. Tests inject a manually advanced clock
to deliver signals deterministically:

	s := scheduler.NewWithConfig(scheduler.Config{Clock: mockClock})

Metrics:

Use NewWithMetrics or Config.Metrics to record delivered signals, live
registrations and the lateness of each signal against its ideal instant.
*/
package scheduler
