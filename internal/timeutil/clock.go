// Package timeutil provides a testable abstraction over time operations.
//
// The periodic scheduler and the pipeline tasks take a Clock rather than
// calling the time package directly, so their deadline arithmetic can be
// driven deterministically from tests with a MockClock.
package timeutil

import (
	"sync"
	"time"
)

// Clock provides an abstraction over time operations for testability.
type Clock interface {
	// Now returns the current time. On the real clock this carries a
	// monotonic reading, so arithmetic on returned values is immune to
	// wall-clock adjustment.
	Now() time.Time

	// Since returns the duration elapsed since t.
	Since(t time.Time) time.Duration

	// Sleep pauses the calling goroutine for the given duration.
	Sleep(d time.Duration)

	// NewTimer creates a Timer that fires after at least duration d.
	NewTimer(d time.Duration) Timer
}

// Timer represents a single event timer.
type Timer interface {
	// C returns the channel on which the fire time is delivered.
	C() <-chan time.Time

	// Stop prevents the Timer from firing.
	Stop() bool
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (RealClock) Sleep(d time.Duration)           { time.Sleep(d) }
func (RealClock) NewTimer(d time.Duration) Timer  { return &realTimer{timer: time.NewTimer(d)} }

type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) C() <-chan time.Time { return t.timer.C }
func (t *realTimer) Stop() bool          { return t.timer.Stop() }

// Stopwatch converts Clock readings into monotonic seconds since a fixed
// baseline, the timestamp representation used for sightings.
type Stopwatch struct {
	clock Clock
	base  time.Time
}

// NewStopwatch creates a Stopwatch with its baseline at the clock's current
// time. All subsequent stamps are seconds elapsed since this call.
func NewStopwatch(clock Clock) *Stopwatch {
	return &Stopwatch{clock: clock, base: clock.Now()}
}

// Stamp returns the seconds elapsed since the baseline.
func (s *Stopwatch) Stamp() float64 {
	return s.clock.Since(s.base).Seconds()
}

// MockClock is a manually controlled clock for testing. Advancing it fires
// any timers whose deadlines have been reached.
type MockClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
}

// NewMockClock creates a MockClock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Since returns the duration since t according to the mocked time.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Sleep advances the mock clock by d and returns immediately. Timers due
// within the advance fire as they would on the real clock.
func (c *MockClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// NewTimer creates a mock timer that fires when the clock is advanced past
// its deadline.
func (c *MockClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{
		deadline: c.now.Add(d),
		ch:       make(chan time.Time, 1),
	}
	if d <= 0 {
		t.fire(c.now)
	} else {
		c.timers = append(c.timers, t)
	}
	return t
}

// Advance moves the mock clock forward by d and fires any expired timers.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	timers := c.timers
	c.mu.Unlock()

	for _, t := range timers {
		t.checkAndFire(now)
	}
}

// Set jumps the mock clock to an absolute time and fires expired timers.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	now := c.now
	timers := c.timers
	c.mu.Unlock()

	for _, tm := range timers {
		tm.checkAndFire(now)
	}
}

type mockTimer struct {
	mu       sync.Mutex
	deadline time.Time
	ch       chan time.Time
	fired    bool
	stopped  bool
}

func (t *mockTimer) C() <-chan time.Time { return t.ch }

func (t *mockTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := !t.fired && !t.stopped
	t.stopped = true
	return active
}

func (t *mockTimer) checkAndFire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped || now.Before(t.deadline) {
		return
	}
	t.fireLocked(now)
}

func (t *mockTimer) fire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fireLocked(now)
}

func (t *mockTimer) fireLocked(now time.Time) {
	t.fired = true
	select {
	case t.ch <- now:
	default:
	}
}
