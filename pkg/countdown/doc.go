/*
Package countdown provides a countdown timer with an explicit lifecycle.

A Timer counts down a whole number of seconds. It moves between four
states:

	idle --Start--> running --Pause--> paused --Start--> running
	running --Finish or last tick--> finished
	any --Reset--> idle

Every operation fires exactly one event after its mutation has been
applied. Handlers are registered per event kind, one per kind, either in
Config or with AddEventListener.

Basic Usage:

	t, err := countdown.New(countdown.Config{
		StartTime: 10,
		OnTick: func(e countdown.Event) error {
			fmt.Println(e.Info.Remaining)
			return nil
		},
	})
	if err != nil {
		return err
	}
	if err := t.Start(); err != nil {
		return err
	}
	err = t.WaitFinished(ctx)

Ticks come from a drift-corrected scheduler, so a ten second countdown ends
ten seconds after Start regardless of how long the handlers take.

Transitions:

By default an illegal call such as Pause on an idle timer returns a
*errors.TransitionError and changes nothing. With
DisableInvalidStateTransitionError set, illegal calls are ignored.

Handlers:

Events are delivered one at a time, in the order their state changes
happened. Handlers run on the caller's goroutine for Start, Pause, Finish
and Reset, and on the scheduler goroutine for ticks and the automatic
finish. They run without any timer lock held and may call back into the
Timer; such a call returns at once and its events are delivered after the
current handler returns. The same holds for a call made while a tick is
being delivered. A handler error is returned from the operation that fired
the event when that operation delivered it; otherwise it goes to
Config.OnError. The state change is never rolled back.
*/
package countdown
