package sightings

import "gonum.org/v1/gonum/stat"

// LatencyStats summarises the queue-residency latencies recorded for one
// network. The same numbers back the status API and the offline latency
// plots.
type LatencyStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Stats computes latency statistics for the history. A single-entry history
// reports a standard deviation of zero.
func (h *NetworkHistory) Stats() LatencyStats {
	if len(h.Latencies) == 0 {
		return LatencyStats{}
	}

	s := LatencyStats{
		Count: len(h.Latencies),
		Min:   h.Latencies[0],
		Max:   h.Latencies[0],
		Mean:  stat.Mean(h.Latencies, nil),
	}
	for _, l := range h.Latencies[1:] {
		if l < s.Min {
			s.Min = l
		}
		if l > s.Max {
			s.Max = l
		}
	}
	if len(h.Latencies) > 1 {
		s.StdDev = stat.StdDev(h.Latencies, nil)
	}
	return s
}
