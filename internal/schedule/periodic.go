// Package schedule implements the drift-free periodic scheduler that gates
// the sampling task.
//
// The scheduler keeps an absolute next-deadline and advances it by a fixed
// interval from the previous deadline, never from the current time. Sleeping
// to an absolute deadline rather than for a relative duration keeps the
// long-run sampling rate at exactly 1/interval: per-cycle execution time
// shifts where in the period the work happens, but never accumulates into
// the deadline sequence.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/sightline/internal/timeutil"
)

// Periodic drives one task at a fixed period against absolute deadlines.
// It is not safe for concurrent use; each periodic task owns its own
// instance.
type Periodic struct {
	clock    timeutil.Clock
	interval time.Duration
	deadline time.Time
	started  bool
}

// NewPeriodic creates a scheduler with the given fixed interval. The
// interval is a process-lifetime constant; it cannot be changed after
// construction.
func NewPeriodic(clock timeutil.Clock, interval time.Duration) (*Periodic, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %v", interval)
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Periodic{clock: clock, interval: interval}, nil
}

// Interval returns the fixed period.
func (p *Periodic) Interval() time.Duration {
	return p.interval
}

// Start captures the current time as the deadline baseline. The first Wait
// returns one interval after this moment.
func (p *Periodic) Start() {
	p.deadline = p.clock.Now()
	p.started = true
}

// Deadline returns the current absolute deadline. Before the first Wait this
// is the Start baseline.
func (p *Periodic) Deadline() time.Time {
	return p.deadline
}

// Wait advances the deadline by one interval and suspends the caller until
// that absolute time. If the previous cycle overran and the new deadline is
// already in the past, Wait returns immediately so the schedule realigns
// without sleeping; a single Wait never spans more than one interval.
//
// Wait returns early with the context's error if ctx is cancelled while
// sleeping.
func (p *Periodic) Wait(ctx context.Context) error {
	if !p.started {
		p.Start()
	}
	p.deadline = p.deadline.Add(p.interval)

	remaining := p.deadline.Sub(p.clock.Now())
	if remaining <= 0 {
		return ctx.Err()
	}

	timer := p.clock.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
