// Package scan provides the sampling collaborators polled by the producer
// task: sources that yield raw network-identifier lines, and the sentinel
// filter policies that decide which lines are real sightings.
package scan

import (
	"context"
	"fmt"
	"strings"
)

// Source yields zero or more raw identifier lines when polled. A source is
// polled exactly once per sampling cycle; an error return is tolerated by
// the caller and retried on the next cycle.
type Source interface {
	Poll(ctx context.Context) ([]string, error)
}

// FilterFunc reports whether a non-empty raw line is a real identifier.
// Lines rejected by the filter are sentinel output of the scanning facility
// ("no current data") and must not enter the pipeline.
type FilterFunc func(line string) bool

// TextSentinelFilter rejects lines starting with the literal three
// characters "x00". This matches the deployed scanner wrapper, which prints
// the escaped text rather than an actual NUL byte for hidden networks.
func TextSentinelFilter(line string) bool {
	return !strings.HasPrefix(line, "x00")
}

// NulPrefixFilter rejects lines whose first byte is an actual NUL. This is
// the other plausible reading of the scanner wrapper's sentinel; it is
// selectable so either interpretation can run in production.
func NulPrefixFilter(line string) bool {
	return len(line) == 0 || line[0] != 0x00
}

// ParseFilterPolicy maps a configuration string onto a FilterFunc.
func ParseFilterPolicy(s string) (FilterFunc, error) {
	switch s {
	case "text-sentinel":
		return TextSentinelFilter, nil
	case "nul-prefix":
		return NulPrefixFilter, nil
	default:
		return nil, fmt.Errorf("unknown filter policy %q (want \"text-sentinel\" or \"nul-prefix\")", s)
	}
}
