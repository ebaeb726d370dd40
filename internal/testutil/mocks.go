package testutil

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/countdown/pkg/common/clock"
)

// MockClock implements clock.Clock with manually controlled time.
// Timers fire when Advance or Set moves the clock past their deadline.
type MockClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*mockTimer
	changed chan struct{}
}

type mockTimer struct {
	clock    *MockClock
	deadline time.Time
	ch       chan time.Time
}

// NewMockClock creates a new MockClock starting at the given time.
// If zero time is provided, uses current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start, changed: make(chan struct{})}
}

// Now returns the current mock time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTimer returns a timer firing once the clock reaches now+d.
// A non-positive d fires immediately.
func (m *MockClock) NewTimer(d time.Duration) clock.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &mockTimer{clock: m, deadline: m.now.Add(d), ch: make(chan time.Time, 1)}
	if d <= 0 {
		mt.ch <- m.now
		return mt
	}
	m.timers = append(m.timers, mt)
	m.notifyLocked()
	return mt
}

// Advance moves the mock clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	m.fireLocked()
}

// Set sets the mock clock to a specific time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
	m.fireLocked()
}

// Pending returns the deadlines of timers that have neither fired nor been
// stopped, in ascending order.
func (m *MockClock) Pending() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Time, 0, len(m.timers))
	for _, mt := range m.timers {
		out = append(out, mt.deadline)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// BlockUntil waits until exactly n timers are pending, failing the test
// after TestTimeout.
func (m *MockClock) BlockUntil(t *testing.T, n int) {
	t.Helper()
	timeout := time.After(TestTimeout)
	for {
		m.mu.Lock()
		pending := len(m.timers)
		changed := m.changed
		m.mu.Unlock()

		if pending == n {
			return
		}
		select {
		case <-changed:
		case <-timeout:
			t.Fatalf("timed out waiting for %d pending timers, have %d", n, pending)
		}
	}
}

func (mt *mockTimer) C() <-chan time.Time {
	return mt.ch
}

func (mt *mockTimer) Stop() bool {
	m := mt.clock
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, other := range m.timers {
		if other == mt {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			m.notifyLocked()
			return true
		}
	}
	return false
}

func (m *MockClock) fireLocked() {
	var kept []*mockTimer
	for _, mt := range m.timers {
		if mt.deadline.After(m.now) {
			kept = append(kept, mt)
			continue
		}
		mt.ch <- m.now
	}
	m.timers = kept
	m.notifyLocked()
}

func (m *MockClock) notifyLocked() {
	close(m.changed)
	m.changed = make(chan struct{})
}
