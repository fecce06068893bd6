//go:build !linux

package rt

import "github.com/banshee-data/sightline/internal/monitoring"

// Non-Linux builds run the pipeline without real-time guarantees so the
// rest of the system can be developed and tested off-target.

func lockMemory() error {
	monitoring.Logf("rt: memory locking unavailable on this platform, continuing without")
	return nil
}

func prefaultStack(n int) {}

func pinCPU(cpu int) error {
	monitoring.Logf("rt: cpu affinity unavailable on this platform, continuing without")
	return nil
}

func setThreadScheduling(priority int) error {
	monitoring.Logf("rt: SCHED_RR unavailable on this platform, continuing with default scheduling")
	return nil
}
