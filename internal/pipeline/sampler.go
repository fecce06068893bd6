// Package pipeline wires the two real-time tasks of the collector: the
// sampler, which polls the scan source on a drift-free periodic schedule and
// produces sightings, and the aggregator, which drains the shared queue into
// the store and fans snapshots out to the persistence sinks.
package pipeline

import (
	"context"
	"runtime"

	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/queue"
	"github.com/banshee-data/sightline/internal/rt"
	"github.com/banshee-data/sightline/internal/scan"
	"github.com/banshee-data/sightline/internal/schedule"
	"github.com/banshee-data/sightline/internal/sightings"
	"github.com/banshee-data/sightline/internal/timeutil"
)

// Sampler is the producer task. Each cycle it waits for the scheduler's
// absolute deadline, polls the scan source, filters the raw lines, stamps
// survivors with the current monotonic time, and pushes them onto the queue
// under the queue's full policy.
type Sampler struct {
	sched  *schedule.Periodic
	source scan.Source
	filter scan.FilterFunc
	queue  *queue.Queue
	watch  *timeutil.Stopwatch

	// priority, when positive, is the SCHED_RR priority applied to the
	// task's OS thread before the loop starts.
	priority int
}

// NewSampler assembles the producer task.
func NewSampler(sched *schedule.Periodic, source scan.Source, filter scan.FilterFunc, q *queue.Queue, watch *timeutil.Stopwatch, priority int) *Sampler {
	if filter == nil {
		filter = scan.TextSentinelFilter
	}
	return &Sampler{
		sched:    sched,
		source:   source,
		filter:   filter,
		queue:    q,
		watch:    watch,
		priority: priority,
	}
}

// Run executes the sampling loop until ctx is cancelled. The loop never
// returns an error from inside a cycle: poll failures are logged and the
// schedule carries on.
func (s *Sampler) Run(ctx context.Context) error {
	if s.priority > 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := rt.ConfigureTaskThread(s.priority); err != nil {
			monitoring.Logf("sampler: %v", err)
		}
	}

	s.sched.Start()
	for {
		if err := s.sched.Wait(ctx); err != nil {
			return err
		}
		s.cycle(ctx)
	}
}

// cycle performs one sampling pass. If the queue has no free slot the poll
// is skipped entirely: a stalled consumer must never stretch the producer's
// cycle past its next deadline.
func (s *Sampler) cycle(ctx context.Context) {
	if s.queue.Full() {
		monitoring.Debugf("sampler: queue full, skipping poll")
		return
	}

	lines, err := s.source.Poll(ctx)
	if err != nil {
		monitoring.Logf("sampler: poll failed: %v", err)
		return
	}

	accepted := 0
	for _, line := range lines {
		if line == "" || len(line) > sightings.MaxSSIDLen {
			continue
		}
		if !s.filter(line) {
			continue
		}
		if s.queue.Push(sightings.Sighting{SSID: line, Timestamp: s.watch.Stamp()}) {
			accepted++
		}
	}
	monitoring.Debugf("sampler: cycle polled %d lines, queued %d", len(lines), accepted)
}
