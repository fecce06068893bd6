// Package queue implements the bounded sighting queue shared between the
// sampling task and the aggregation task.
//
// The queue is a fixed-capacity ring buffer guarded by a single mutex with
// two condition variables (not-full and not-empty). The producer-side
// behaviour on a full buffer is an explicit, named policy: either block until
// a slot frees, or drop the new sighting so the periodic sampling task is
// never stalled past its next deadline. The original sensor firmware this
// replaces mixed the two behaviours implicitly at call sites; here the policy
// is chosen once at construction and observed on every push.
package queue

import (
	"fmt"
	"sync"

	"github.com/banshee-data/sightline/internal/sightings"
)

// DefaultCapacity is the number of sighting slots buffered between the two
// tasks. Sized for one scan cycle's worth of networks on a busy band.
const DefaultCapacity = 32

// FullPolicy selects the producer-side behaviour when the buffer is full.
type FullPolicy int

const (
	// DropNewest discards the pushed sighting when the buffer is full,
	// without blocking and without mutating queue state. This trades
	// sighting loss for bounded sampling latency.
	DropNewest FullPolicy = iota

	// Block suspends the pusher on the not-full condition until a slot
	// frees. The sampling task may miss deadlines under sustained
	// backpressure.
	Block
)

// String returns the policy name used in configuration files.
func (p FullPolicy) String() string {
	switch p {
	case DropNewest:
		return "drop"
	case Block:
		return "block"
	default:
		return fmt.Sprintf("FullPolicy(%d)", int(p))
	}
}

// ParseFullPolicy maps a configuration string onto a FullPolicy.
func ParseFullPolicy(s string) (FullPolicy, error) {
	switch s {
	case "drop":
		return DropNewest, nil
	case "block":
		return Block, nil
	default:
		return 0, fmt.Errorf("unknown queue full policy %q (want \"drop\" or \"block\")", s)
	}
}

// Queue is a fixed-capacity blocking ring buffer of sightings.
//
// head is the next slot to pop, tail the next slot to push. The full and
// empty flags disambiguate the head == tail case; they are mutually
// exclusive and both false whenever head != tail.
type Queue struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	buf  []sightings.Sighting
	head int
	tail int

	full   bool
	empty  bool
	closed bool

	policy  FullPolicy
	dropped uint64
}

// New creates a queue with the given capacity and full policy. A
// non-positive capacity falls back to DefaultCapacity.
func New(capacity int, policy FullPolicy) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	q := &Queue{
		buf:    make([]sightings.Sighting, capacity),
		empty:  true,
		policy: policy,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push enqueues one sighting. Under the Block policy a full buffer suspends
// the caller until a slot frees; under DropNewest the sighting is discarded
// immediately. It reports whether the sighting was enqueued. Push returns
// false without enqueueing after Close.
func (q *Queue) Push(s sightings.Sighting) bool {
	q.mu.Lock()

	if q.policy == Block {
		for q.full && !q.closed {
			q.notFull.Wait()
		}
	}

	if q.closed || q.full {
		if q.full && !q.closed {
			q.dropped++
		}
		q.mu.Unlock()
		return false
	}

	q.buf[q.tail] = s
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	if q.tail == q.head {
		q.full = true
	}
	q.empty = false

	q.mu.Unlock()
	q.notEmpty.Signal()
	return true
}

// Pop dequeues the oldest sighting, blocking while the buffer is empty. It
// returns ok == false only once the queue has been closed and drained.
func (q *Queue) Pop() (s sightings.Sighting, ok bool) {
	q.mu.Lock()

	for q.empty && !q.closed {
		q.notEmpty.Wait()
	}
	if q.empty {
		q.mu.Unlock()
		return sightings.Sighting{}, false
	}

	s = q.buf[q.head]
	q.buf[q.head] = sightings.Sighting{}
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	if q.head == q.tail {
		q.empty = true
	}
	q.full = false

	q.mu.Unlock()
	q.notFull.Signal()
	return s, true
}

// Close wakes all blocked producers and consumers. Pending sightings remain
// poppable; once drained, Pop returns ok == false. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Full reports whether the buffer currently has no free slot. The sampling
// task checks this before polling so a stalled consumer never delays the
// periodic schedule.
func (q *Queue) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.full
}

// Empty reports whether the buffer holds no unconsumed sightings.
func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.empty
}

// Len returns the number of unconsumed sightings.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

func (q *Queue) lenLocked() int {
	switch {
	case q.full:
		return len(q.buf)
	case q.empty:
		return 0
	case q.tail > q.head:
		return q.tail - q.head
	default:
		return len(q.buf) - q.head + q.tail
	}
}

// Cap returns the fixed slot capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Policy returns the configured full policy.
func (q *Queue) Policy() FullPolicy {
	return q.policy
}

// Dropped returns the number of sightings discarded under the DropNewest
// policy since construction.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
