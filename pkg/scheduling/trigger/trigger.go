package trigger

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vnykmshr/countdown/pkg/common/clock"
	cderrors "github.com/vnykmshr/countdown/pkg/common/errors"
	"github.com/vnykmshr/countdown/pkg/common/validation"
	"github.com/vnykmshr/countdown/pkg/countdown"
	"github.com/vnykmshr/countdown/pkg/metrics"
)

const module = "trigger"

// parser accepts an optional seconds field and descriptors.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Config holds trigger configuration.
type Config struct {
	Clock    clock.Clock       // Time source (default: clock.Real())
	Location *time.Location    // Zone the expression is evaluated in (default: time.Local)
	Logger   *slog.Logger      // Default: slog.Default()
	Metrics  *metrics.Registry // Optional; nil disables metrics
	Name     string            // Label value for metrics (default: "default")
}

// Cron resets and starts a Timer whenever its schedule fires.
type Cron struct {
	expr     string
	schedule cron.Schedule
	timer    countdown.Timer
	clock    clock.Clock
	loc      *time.Location
	logger   *slog.Logger
	metrics  *metrics.Registry
	name     string
	firings  atomic.Int64

	mu      sync.Mutex
	started bool
	stopped bool
	next    time.Time
	stop    chan struct{}
	done    chan struct{}
}

// ValidateExpression reports whether expr is a cron expression NewCron accepts.
func ValidateExpression(expr string) error {
	_, err := parse(expr)
	return err
}

func parse(expr string) (cron.Schedule, error) {
	if err := validation.ValidateNotEmpty(module, "expression", expr); err != nil {
		return nil, err
	}
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, cderrors.NewValidationError(module, "expression", expr, err.Error()).
			WithHint("use five cron fields, an optional leading seconds field, or a descriptor like @hourly")
	}
	return schedule, nil
}

// NewCron parses expr and binds it to t. The trigger is inert until Start.
func NewCron(expr string, t countdown.Timer, cfg Config) (*Cron, error) {
	schedule, err := parse(expr)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, validation.ValidateNotNil(module, "timer", nil)
	}

	c := cfg.Clock
	if c == nil {
		c = clock.Real()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	name := cfg.Name
	if name == "" {
		name = "default"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Cron{
		expr:     expr,
		schedule: schedule,
		timer:    t,
		clock:    c,
		loc:      loc,
		logger:   logger.With("component", module, "trigger", name, "expression", expr),
		metrics:  cfg.Metrics,
		name:     name,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start launches the trigger goroutine. Calling Start on a running trigger
// is a no-op. Returns ErrClosed after Stop.
func (c *Cron) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return cderrors.NewOperationError(module, "start", cderrors.ErrClosed)
	}
	if c.started {
		return nil
	}
	c.started = true

	go c.run()
	return nil
}

// Stop halts the trigger. The returned channel is closed once the trigger
// goroutine has exited. A countdown already started keeps running.
func (c *Cron) Stop() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.stopped {
		c.stopped = true
		close(c.stop)
		if !c.started {
			close(c.done)
		}
	}
	return c.done
}

// Next returns the next firing instant, or the zero time when the trigger
// is not running.
func (c *Cron) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Firings returns how many times the schedule has fired.
func (c *Cron) Firings() int64 {
	return c.firings.Load()
}

// Expression returns the cron expression the trigger was built from.
func (c *Cron) Expression() string {
	return c.expr
}

func (c *Cron) run() {
	defer close(c.done)
	defer c.setNext(time.Time{})

	for {
		now := c.clock.Now().In(c.loc)
		next := c.schedule.Next(now)
		if next.IsZero() {
			c.logger.Warn("schedule has no future firing")
			return
		}
		c.setNext(next)

		t := c.clock.NewTimer(next.Sub(now))
		select {
		case <-c.stop:
			t.Stop()
			return
		case <-t.C():
		}

		c.fire()
	}
}

func (c *Cron) setNext(next time.Time) {
	c.mu.Lock()
	c.next = next
	c.mu.Unlock()
}

func (c *Cron) fire() {
	c.firings.Add(1)
	if c.metrics != nil {
		c.metrics.TriggerFirings.WithLabelValues(c.name).Inc()
	}
	c.logger.Debug("schedule fired", "timer_id", c.timer.ID())

	if err := c.timer.Reset(); err != nil {
		c.logger.Error("timer reset failed", "error", err)
	}
	if err := c.timer.Start(); err != nil {
		c.logger.Error("timer start failed", "error", err)
	}
}
