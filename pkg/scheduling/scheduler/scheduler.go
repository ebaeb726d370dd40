package scheduler

import (
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/countdown/pkg/common/clock"
	cderrors "github.com/vnykmshr/countdown/pkg/common/errors"
	"github.com/vnykmshr/countdown/pkg/common/validation"
	"github.com/vnykmshr/countdown/pkg/metrics"
)

// Config holds scheduler configuration.
type Config struct {
	Clock   clock.Clock       // Time source (default: clock.Real())
	Metrics *metrics.Registry // Optional; nil disables metrics
	Name    string            // Label value for metrics (default: "default")
	Logger  *slog.Logger      // Default: slog.Default()
}

// Scheduler issues drift-corrected periodic signals. Each registration
// returned by Start runs on its own goroutine.
type Scheduler struct {
	clock   clock.Clock
	metrics *metrics.Registry
	name    string
	logger  *slog.Logger
	active  atomic.Int64
}

// New creates a scheduler with default configuration.
func New() *Scheduler {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) *Scheduler {
	c := cfg.Clock
	if c == nil {
		c = clock.Real()
	}

	name := cfg.Name
	if name == "" {
		name = "default"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		clock:   c,
		metrics: cfg.Metrics,
		name:    name,
		logger:  logger.With("component", "scheduler", "scheduler", name),
	}
}

// Start begins issuing signals to callback every interval. The n-th signal
// targets the absolute instant start+n*interval, so the time spent inside
// callback does not accumulate. Signals are never skipped: after an overrun
// the late ones are delivered back to back.
//
// Returns a ValidationError when callback is nil or interval is not positive.
func (s *Scheduler) Start(callback func(), interval time.Duration) (*Handle, error) {
	if callback == nil {
		return nil, validation.ValidateNotNil("scheduler", "callback", nil)
	}
	if err := validation.ValidatePositiveDuration("scheduler", "interval", interval); err != nil {
		return nil, err
	}

	h := &Handle{
		sched:    s,
		callback: callback,
		interval: interval,
		start:    s.clock.Now(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	s.active.Add(1)
	if s.metrics != nil {
		s.metrics.SchedulerActive.WithLabelValues(s.name).Inc()
	}
	s.logger.Debug("registration started", "interval", interval)

	go h.run()
	return h, nil
}

// maxIntervalMillis is the largest millisecond interval a time.Duration holds.
const maxIntervalMillis = math.MaxInt64 / int64(time.Millisecond)

// StartMillis is Start with the interval given in milliseconds.
func (s *Scheduler) StartMillis(callback func(), intervalMillis int64) (*Handle, error) {
	if intervalMillis <= 0 {
		return nil, validation.ValidatePositive("scheduler", "intervalMillis", int(intervalMillis))
	}
	if intervalMillis > maxIntervalMillis {
		return nil, cderrors.NewValidationError("scheduler", "intervalMillis", intervalMillis, "is too large").
			WithHint(fmt.Sprintf("use at most %d", int64(maxIntervalMillis)))
	}
	return s.Start(callback, time.Duration(intervalMillis)*time.Millisecond)
}

// Active returns the number of registrations whose goroutine is still running.
func (s *Scheduler) Active() int {
	return int(s.active.Load())
}

// Handle is a live registration returned by Start. Its only control
// operation is Cancel.
type Handle struct {
	sched    *Scheduler
	callback func()
	interval time.Duration
	start    time.Time

	mu       sync.Mutex
	canceled bool
	stop     chan struct{}
	done     chan struct{}
	signals  atomic.Int64
}

// Cancel stops future signals. A signal is committed under the handle lock
// immediately before its callback is invoked, so no signal is committed
// after Cancel returns. A callback already committed is not interrupted.
// Cancel may be called from inside the callback and more than once.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.canceled {
		return
	}
	h.canceled = true
	close(h.stop)
}

// Done returns a channel that is closed once the registration goroutine
// has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Signals returns the number of signals delivered so far.
func (h *Handle) Signals() int64 {
	return h.signals.Load()
}

// Interval returns the nominal interval of the registration.
func (h *Handle) Interval() time.Duration {
	return h.interval
}

// Canceled reports whether Cancel has been called.
func (h *Handle) Canceled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.canceled
}

func (h *Handle) run() {
	s := h.sched
	defer close(h.done)
	defer func() {
		s.active.Add(-1)
		if s.metrics != nil {
			s.metrics.SchedulerActive.WithLabelValues(s.name).Dec()
		}
	}()

	for n := int64(1); ; n++ {
		target := h.start.Add(time.Duration(n) * h.interval)
		wait := target.Sub(s.clock.Now())
		if wait < 0 {
			wait = 0
		}

		timer := s.clock.NewTimer(wait)
		select {
		case <-h.stop:
			timer.Stop()
			return
		case <-timer.C():
		}

		if !h.deliver(target) {
			return
		}
	}
}

// deliver runs one signal unless the handle was canceled while waiting.
// The canceled check and the signal accounting share one critical section
// and nothing else runs between it and the callback.
func (h *Handle) deliver(target time.Time) (ok bool) {
	s := h.sched
	lateness := s.clock.Now().Sub(target)

	h.mu.Lock()
	if h.canceled {
		h.mu.Unlock()
		return false
	}
	h.signals.Add(1)
	if s.metrics != nil {
		s.metrics.SchedulerSignals.WithLabelValues(s.name).Inc()
		s.metrics.SchedulerDrift.WithLabelValues(s.name).Observe(lateness.Seconds())
	}
	h.mu.Unlock()
	ok = true

	// A panicking callback must not kill the registration goroutine.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("signal callback panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	h.callback()
	return true
}
