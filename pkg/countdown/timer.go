package countdown

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	cderrors "github.com/vnykmshr/countdown/pkg/common/errors"
	"github.com/vnykmshr/countdown/pkg/common/validation"
	"github.com/vnykmshr/countdown/pkg/metrics"
	"github.com/vnykmshr/countdown/pkg/scheduling/scheduler"
)

const module = "countdown"

// registration ties scheduler signals to the Start call that created them.
// A tick whose registration is no longer current is dropped.
type registration struct {
	handle *scheduler.Handle
}

// queued is an event waiting for delivery. Events are queued under t.mu in
// mutation order and delivered by a single goroutine at a time.
type queued struct {
	kind  EventKind
	info  Info
	owner *outcome
}

// outcome collects handler errors for the operation that queued them.
type outcome struct {
	err error
}

type timer struct {
	id       string
	name     string
	initial  int
	strict   bool
	interval time.Duration
	sched    *scheduler.Scheduler
	logger   *slog.Logger
	metrics  *metrics.Registry
	onError  func(error)

	mu        sync.Mutex
	state     State
	remaining int
	reg       *registration
	handlers  map[EventKind]Handler
	changed   chan struct{}
	finishes  uint64

	queue      []queued
	delivering bool
}

// New validates cfg and constructs a Timer in the idle state, then fires
// the create event.
//
// An invalid StartTime returns a ValidationError and no Timer. If the
// create handler fails, the constructed Timer is returned together with
// the handler error.
func New(cfg Config) (Timer, error) {
	initial, err := validation.ValidateNonNegativeInteger(module, "startTime", cfg.StartTime)
	if err != nil {
		return nil, err
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = time.Second
	}
	if err := validation.ValidatePositiveDuration(module, "interval", interval); err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "timer"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	t := &timer{
		id:        id,
		name:      name,
		initial:   initial,
		strict:    !cfg.DisableInvalidStateTransitionError,
		interval:  interval,
		sched:     cfg.Scheduler,
		logger:    logger.With("component", module, "timer", name, "timer_id", id),
		metrics:   cfg.Metrics,
		onError:   cfg.OnError,
		state:     StateIdle,
		remaining: initial,
		handlers:  make(map[EventKind]Handler, 6),
		changed:   make(chan struct{}),
	}

	if t.sched == nil {
		t.sched = scheduler.NewWithConfig(scheduler.Config{
			Metrics: cfg.Metrics,
			Name:    name,
			Logger:  logger,
		})
	}
	if t.onError == nil {
		t.onError = func(err error) {
			t.logger.Error("event handler failed", "error", err)
		}
	}

	for kind, h := range map[EventKind]Handler{
		EventCreate: cfg.OnCreate,
		EventStart:  cfg.OnStart,
		EventPause:  cfg.OnPause,
		EventTick:   cfg.OnTick,
		EventFinish: cfg.OnFinish,
		EventReset:  cfg.OnReset,
	} {
		if h != nil {
			t.handlers[kind] = h
		}
	}

	if t.metrics != nil {
		t.metrics.TimersCreated.Inc()
	}

	own := &outcome{}
	t.mu.Lock()
	t.enqueueLocked(EventCreate, own)
	t.mu.Unlock()

	return t, t.deliver(own)
}

func (t *timer) ID() string {
	return t.id
}

func (t *timer) Start() error {
	t.mu.Lock()
	if t.state != StateIdle && t.state != StatePaused {
		err := t.rejectLocked("start", StateRunning)
		t.mu.Unlock()
		return err
	}

	t.cancelLocked()

	if t.remaining == 0 {
		// Nothing to count down: start and finish in one step.
		own := &outcome{}
		t.setStateLocked(StateRunning)
		t.enqueueLocked(EventStart, own)
		t.finishLocked()
		t.enqueueLocked(EventFinish, own)
		t.mu.Unlock()

		return t.deliver(own)
	}

	reg := &registration{}
	h, err := t.sched.Start(func() { t.tick(reg) }, t.interval)
	if err != nil {
		t.mu.Unlock()
		return cderrors.NewOperationError(module, "start", err)
	}
	reg.handle = h
	t.reg = reg

	return t.commit(StateRunning, EventStart)
}

func (t *timer) Pause() error {
	t.mu.Lock()
	if t.state != StateRunning {
		err := t.rejectLocked("pause", StatePaused)
		t.mu.Unlock()
		return err
	}

	t.cancelLocked()
	return t.commit(StatePaused, EventPause)
}

func (t *timer) Finish() error {
	t.mu.Lock()
	if t.state != StateRunning {
		err := t.rejectLocked("finish", StateFinished)
		t.mu.Unlock()
		return err
	}

	t.finishLocked()
	own := &outcome{}
	t.enqueueLocked(EventFinish, own)
	t.mu.Unlock()

	return t.deliver(own)
}

func (t *timer) Reset() error {
	t.mu.Lock()
	t.cancelLocked()
	t.remaining = t.initial
	return t.commit(StateIdle, EventReset)
}

func (t *timer) AddEventListener(kind EventKind, handler Handler) error {
	if !kind.Valid() {
		return cderrors.NewValidationError(module, "eventKind", kind, "unknown event kind").
			WithHint("use one of create, start, pause, tick, finish, reset")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if handler == nil {
		delete(t.handlers, kind)
		return nil
	}
	t.handlers[kind] = handler
	return nil
}

func (t *timer) Info() Info {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.infoLocked()
}

func (t *timer) WaitFinished(ctx context.Context) error {
	t.mu.Lock()
	since := t.finishes
	t.mu.Unlock()

	for {
		t.mu.Lock()
		done := t.state == StateFinished || t.finishes != since
		changed := t.changed
		t.mu.Unlock()

		if done {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// tick handles one scheduler signal for reg.
func (t *timer) tick(reg *registration) {
	t.mu.Lock()
	if t.reg != reg || t.state != StateRunning {
		t.mu.Unlock()
		return
	}

	own := &outcome{}
	t.remaining--
	t.enqueueLocked(EventTick, own)
	if t.remaining <= 0 {
		t.finishLocked()
		t.enqueueLocked(EventFinish, own)
	}
	t.mu.Unlock()

	if err := t.deliver(own); err != nil {
		t.onError(err)
	}
}

// finishLocked applies the finish mutation. It is legal from any state and
// is used both by Finish and by the final tick.
func (t *timer) finishLocked() {
	t.cancelLocked()
	t.remaining = 0
	t.finishes++
	t.setStateLocked(StateFinished)
}

func (t *timer) cancelLocked() {
	if t.reg == nil {
		return
	}
	t.reg.handle.Cancel()
	t.reg = nil
}

func (t *timer) setStateLocked(s State) {
	t.state = s
	close(t.changed)
	t.changed = make(chan struct{})
}

func (t *timer) infoLocked() Info {
	return Info{
		ID:              t.id,
		State:           t.state,
		Remaining:       t.remaining,
		InitialDuration: t.initial,
	}
}

// rejectLocked handles an illegal transition according to the strictness
// policy. Nothing is mutated either way.
func (t *timer) rejectLocked(op string, to State) error {
	if !t.strict {
		t.logger.Debug("ignored invalid transition", "operation", op, "from", t.state.String(), "to", to.String())
		return nil
	}
	return cderrors.NewTransitionError(op, t.state.String(), to.String())
}

// commit moves to state s, queues the matching event and delivers. It is
// entered with t.mu held and returns with it released.
func (t *timer) commit(s State, kind EventKind) error {
	own := &outcome{}
	t.setStateLocked(s)
	t.enqueueLocked(kind, own)
	t.mu.Unlock()

	return t.deliver(own)
}

func (t *timer) enqueueLocked(kind EventKind, owner *outcome) {
	t.queue = append(t.queue, queued{kind: kind, info: t.infoLocked(), owner: owner})
}

// deliver drains the event queue unless another goroutine is already
// draining it. Only one handler runs at a time and events arrive in the
// order their mutations happened.
//
// Handler errors for events queued by the caller are returned. When the
// caller's events are left to another drainer, as happens for calls made
// from inside a handler or concurrently with a tick, their errors go to
// OnError instead.
func (t *timer) deliver(own *outcome) error {
	t.mu.Lock()
	if t.delivering {
		t.mu.Unlock()
		return nil
	}
	t.delivering = true
	t.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			t.mu.Lock()
			t.delivering = false
			t.mu.Unlock()
			panic(r)
		}
	}()

	for {
		t.mu.Lock()
		if len(t.queue) == 0 {
			t.queue = nil
			t.delivering = false
			t.mu.Unlock()
			return own.err
		}
		ev := t.queue[0]
		t.queue = t.queue[1:]
		t.mu.Unlock()

		if err := t.dispatch(ev.kind, ev.info); err != nil {
			if ev.owner == own {
				own.err = errors.Join(own.err, err)
			} else {
				t.onError(err)
			}
		}
	}
}

// dispatch delivers one event to the registered handler. It must be called
// without holding t.mu so that handlers may call back into the timer.
// Callers other than deliver would break delivery order.
func (t *timer) dispatch(kind EventKind, info Info) error {
	t.mu.Lock()
	handler := t.handlers[kind]
	t.mu.Unlock()

	t.logger.Debug("timer event",
		"event", string(kind),
		"state", info.State.String(),
		"remaining", info.Remaining)

	if t.metrics != nil {
		t.metrics.TimerEvents.WithLabelValues(t.name, string(kind)).Inc()
		t.metrics.TimerRemaining.WithLabelValues(t.name).Set(float64(info.Remaining))
	}

	if handler == nil {
		return nil
	}
	if err := handler(Event{Kind: kind, Info: info, At: time.Now()}); err != nil {
		if t.metrics != nil {
			t.metrics.TimerHandlerErrs.WithLabelValues(t.name, string(kind)).Inc()
		}
		return cderrors.NewHandlerError(module, string(kind), err)
	}
	return nil
}
