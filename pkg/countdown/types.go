package countdown

import (
	"context"
	"log/slog"
	"time"

	"github.com/vnykmshr/countdown/pkg/metrics"
	"github.com/vnykmshr/countdown/pkg/scheduling/scheduler"
)

// State is the lifecycle state of a Timer.
type State int

const (
	// StateIdle is the initial state and the state after Reset.
	StateIdle State = iota
	// StateRunning counts down once per second.
	StateRunning
	// StatePaused holds the remaining time until Start resumes it.
	StatePaused
	// StateFinished is entered when the countdown reaches zero or on Finish.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// EventKind names a lifecycle event.
type EventKind string

// Lifecycle events, one per operation.
const (
	EventCreate EventKind = "create"
	EventStart  EventKind = "start"
	EventPause  EventKind = "pause"
	EventTick   EventKind = "tick"
	EventFinish EventKind = "finish"
	EventReset  EventKind = "reset"
)

// EventKinds returns every event kind in lifecycle order.
func EventKinds() []EventKind {
	return []EventKind{EventCreate, EventStart, EventPause, EventTick, EventFinish, EventReset}
}

// Valid reports whether k is one of the lifecycle event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventCreate, EventStart, EventPause, EventTick, EventFinish, EventReset:
		return true
	}
	return false
}

// Info is an immutable snapshot of a Timer.
type Info struct {
	ID              string
	State           State
	Remaining       int // seconds
	InitialDuration int // seconds
}

// Event is delivered to handlers after the mutation it reports has been
// applied. Info is taken after that mutation.
type Event struct {
	Kind EventKind
	Info Info
	At   time.Time
}

// Handler receives lifecycle events. A returned error is wrapped as a
// handler error and surfaced to the caller of the operation that fired the
// event, or to OnError when that event was delivered by another goroutine.
// The state change is kept.
type Handler func(Event) error

// Config holds timer configuration.
type Config struct {
	// StartTime is the countdown length in whole seconds. Required. Any
	// numeric type is accepted as long as the value is integral and >= 0;
	// numeric strings are converted.
	StartTime interface{}

	// DisableInvalidStateTransitionError turns illegal Start, Pause and
	// Finish calls into silent no-ops instead of returning a TransitionError.
	DisableInvalidStateTransitionError bool

	// Initial handlers, one per event kind.
	OnCreate Handler
	OnStart  Handler
	OnPause  Handler
	OnTick   Handler
	OnFinish Handler
	OnReset  Handler

	// OnError receives handler errors raised by ticks, and by events
	// whose delivery was left to another goroutine. Default: log at error
	// level.
	OnError func(error)

	// Name labels log records and metrics (default: "timer").
	Name string

	// Logger for transition and error logging (default: slog.Default()).
	Logger *slog.Logger

	// Scheduler drives ticks (default: a scheduler sharing Logger and Metrics).
	Scheduler *scheduler.Scheduler

	// Interval between ticks (default: 1s). Meant for tests.
	Interval time.Duration

	// Metrics is optional; nil disables metrics.
	Metrics *metrics.Registry
}

// Timer is a countdown timer. All methods are safe for concurrent use.
type Timer interface {
	// ID returns the timer's unique identity.
	ID() string

	// Start begins or resumes the countdown. Legal from idle and paused.
	Start() error

	// Pause stops the countdown, keeping the remaining time. Legal from running.
	Pause() error

	// Finish ends the countdown early, forcing the remaining time to zero.
	// Legal from running.
	Finish() error

	// Reset returns the timer to idle with the initial duration. Always legal.
	Reset() error

	// AddEventListener replaces the handler for kind. A nil handler
	// removes it.
	AddEventListener(kind EventKind, handler Handler) error

	// Info returns a snapshot of the timer.
	Info() Info

	// WaitFinished blocks until the timer is finished, or has finished
	// since the call, or ctx is done.
	WaitFinished(ctx context.Context) error
}
