// Package monitoring provides the process-wide diagnostic logger used by the
// pipeline packages. Runtime failures in the sampling and aggregation loops
// are reported here and tolerated; they must never stop the periodic schedule.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced with SetLogger. Tests typically mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf carries high-frequency per-cycle telemetry (queue depth, poll
// counts). It is a no-op unless enabled with SetDebugLogger.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebugLogger enables or replaces the per-cycle telemetry stream. Passing
// nil disables it again.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Debugf = func(string, ...interface{}) {}
		return
	}
	Debugf = f
}
