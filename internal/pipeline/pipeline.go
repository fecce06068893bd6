package pipeline

import (
	"context"
	"sync"
)

// Pipeline runs the sampler and aggregator concurrently and owns their
// shutdown ordering: on context cancellation the queue is closed, which
// wakes any blocked producer or consumer, and the aggregator drains whatever
// is still buffered before Run returns.
type Pipeline struct {
	sampler    *Sampler
	aggregator *Aggregator
}

// New assembles a pipeline from its two tasks. The tasks must share one
// queue.
func New(sampler *Sampler, aggregator *Aggregator) *Pipeline {
	return &Pipeline{sampler: sampler, aggregator: aggregator}
}

// Run starts both task loops and blocks until both have stopped. It always
// returns the context's error (nil only if ctx was never cancelled, which
// does not happen in normal operation).
func (p *Pipeline) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.sampler.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.aggregator.Run(ctx)
	}()

	// Closing the queue is what actually unblocks the tasks; context
	// cancellation alone cannot wake a condition-variable wait.
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		p.sampler.queue.Close()
	}()

	wg.Wait()
	return ctx.Err()
}
