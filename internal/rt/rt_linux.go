//go:build linux

package rt

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// pageSize matches the MMU page granularity on the target (BCM2837 and
// every other platform this runs on).
const pageSize = 4096

func lockMemory() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("%w: mlockall: %v", ErrMemoryLock, err)
	}
	return nil
}

// prefaultStack reserves a region sized for the deepest task call path and
// touches every page, faulting it in before the timed loops run. Goroutine
// stacks grow out of the same runtime arenas; with mlockall(MCL_FUTURE) in
// effect the touched pages stay resident.
func prefaultStack(n int) {
	touch(make([]byte, n))
}

func touch(buf []byte) {
	for i := 0; i < len(buf); i += pageSize {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

func pinCPU(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("%w: pinning to cpu %d: %v", ErrAffinity, cpu, err)
	}
	return nil
}

// setThreadScheduling switches the calling OS thread to SCHED_RR at the
// given fixed priority.
func setThreadScheduling(priority int) error {
	attr := &unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_RR,
		Priority: uint32(priority),
	}
	if err := unix.SchedSetAttr(unix.Gettid(), attr, 0); err != nil {
		return fmt.Errorf("setting SCHED_RR priority %d on tid %d: %w", priority, unix.Gettid(), err)
	}
	return nil
}
