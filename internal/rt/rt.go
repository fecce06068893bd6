// Package rt performs the one-time real-time configuration of the process:
// locking memory, prefaulting the task stack, pinning execution to a single
// CPU, and setting fixed-priority round-robin scheduling on the task
// threads.
//
// Configuration failures here are startup-only and fatal: they indicate the
// process lacks privilege or the platform lacks the facility, neither of
// which resolves by retrying. On non-Linux platforms the calls are no-ops so
// the pipeline remains runnable for development.
package rt

import "errors"

// ErrMemoryLock wraps failures to lock process memory. Mapped to its own
// exit code so operators can tell a ulimit problem from an affinity problem.
var ErrMemoryLock = errors.New("memory lock failed")

// ErrAffinity wraps failures to restrict the process to its designated CPU.
var ErrAffinity = errors.New("cpu affinity failed")

// DefaultStackPrefaultBytes covers the deepest call path of the task loops.
// Touching it once up front keeps first-touch page faults out of the timed
// cycles.
const DefaultStackPrefaultBytes = 128 * 1024

// DefaultTaskPriority sits just under the default priority of kernel
// tasklets and interrupt threads on a PREEMPT_RT kernel, the highest level
// safe for user tasks.
const DefaultTaskPriority = 49

// Config selects the real-time parameters applied at startup.
type Config struct {
	// CPU is the single logical CPU the process is pinned to.
	CPU int

	// Priority is the fixed SCHED_RR priority given to each task thread.
	// Every task shares the same value: round-robin time slicing only
	// arbitrates between peers of equal priority.
	Priority int

	// StackPrefaultBytes is the size of the stack region touched before
	// the timed tasks start. Zero selects DefaultStackPrefaultBytes.
	StackPrefaultBytes int
}

// Configure applies the process-wide real-time setup: memory locking, stack
// prefault, and CPU pinning. It must run before the task threads start;
// threads created afterwards inherit the affinity. Errors are wrapped with
// ErrMemoryLock or ErrAffinity for exit-code mapping.
func Configure(cfg Config) error {
	if err := lockMemory(); err != nil {
		return err
	}
	n := cfg.StackPrefaultBytes
	if n <= 0 {
		n = DefaultStackPrefaultBytes
	}
	prefaultStack(n)
	return pinCPU(cfg.CPU)
}

// ConfigureTaskThread applies SCHED_RR at the given priority to the calling
// OS thread. The caller must have locked the goroutine to its thread first.
// Unlike Configure, a failure here is reported but tolerable: the pipeline
// still functions under the default scheduler, with worse jitter.
func ConfigureTaskThread(priority int) error {
	return setThreadScheduling(priority)
}
