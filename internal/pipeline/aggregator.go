package pipeline

import (
	"context"
	"runtime"

	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/queue"
	"github.com/banshee-data/sightline/internal/report"
	"github.com/banshee-data/sightline/internal/rt"
	"github.com/banshee-data/sightline/internal/sightings"
	"github.com/banshee-data/sightline/internal/timeutil"
)

// Aggregator is the consumer task. It blocks on the queue, merges each
// dequeued sighting into the store, and hands the resulting snapshot to
// every sink. The store is owned exclusively by this task; no lock guards
// it.
type Aggregator struct {
	queue *queue.Queue
	store *sightings.Store
	sinks []report.Sink
	watch *timeutil.Stopwatch

	priority int
}

// NewAggregator assembles the consumer task.
func NewAggregator(q *queue.Queue, store *sightings.Store, watch *timeutil.Stopwatch, priority int, sinks ...report.Sink) *Aggregator {
	return &Aggregator{
		queue:    q,
		store:    store,
		sinks:    sinks,
		watch:    watch,
		priority: priority,
	}
}

// Run executes the aggregation loop until the queue is closed and drained.
// Sink failures are logged and never propagate: persistence has no
// backpressure on aggregation.
func (a *Aggregator) Run(ctx context.Context) error {
	if a.priority > 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := rt.ConfigureTaskThread(a.priority); err != nil {
			monitoring.Logf("aggregator: %v", err)
		}
	}

	for {
		s, ok := a.queue.Pop()
		if !ok {
			return ctx.Err()
		}

		if !a.store.Record(s, a.watch.Stamp()) {
			monitoring.Debugf("aggregator: duplicate sighting of %q discarded", s.SSID)
		}

		snapshot := a.store.Snapshot()
		for _, sink := range a.sinks {
			if err := sink.Persist(snapshot); err != nil {
				monitoring.Logf("aggregator: persist failed: %v", err)
			}
		}
	}
}
