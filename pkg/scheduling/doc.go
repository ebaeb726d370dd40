/*
Package scheduling provides the time sources that drive countdown timers.

  - scheduler: Drift-corrected periodic signals
  - trigger: Cron schedules that restart a timer

Scheduler:

The scheduler targets absolute instants, so the n-th signal of a
registration arrives at start + n*interval however long earlier callbacks
took:

	s := scheduler.New()

	h, err := s.Start(func() {
		fmt.Println("tick")
	}, time.Second)
	if err != nil {
		return err
	}
	defer h.Cancel()

Trigger:

A cron trigger resets and starts a timer every time its expression matches:

	tr, err := trigger.NewCron("0 9 * * MON-FRI", timer, trigger.Config{})
	if err != nil {
		return err
	}
	_ = tr.Start()
	defer func() { <-tr.Stop() }()
*/
package scheduling
