// Package trigger restarts countdown timers on a cron schedule.
//
// A Cron trigger holds a parsed cron expression and a Timer. At every
// instant the expression matches it resets the timer and starts it again,
// which turns a one-shot countdown into a recurring one:
//
//	t, _ := countdown.New(countdown.Config{StartTime: 300})
//
//	tr, err := trigger.NewCron("0 */15 * * * *", t, trigger.Config{})
//	if err != nil {
//		return err
//	}
//	if err := tr.Start(); err != nil {
//		return err
//	}
//	defer func() { <-tr.Stop() }()
//
// Expressions use the standard five cron fields with an optional leading
// seconds field. Descriptors such as @hourly, @daily and @every 90s are also
// accepted. Expressions are evaluated in Config.Location (default: local time).
package trigger
