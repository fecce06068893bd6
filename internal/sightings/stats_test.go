package sightings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsSingleEntry(t *testing.T) {
	h := &NetworkHistory{SSID: "n", Timestamps: []float64{1}, Latencies: []float64{0.5}}
	s := h.Stats()

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 0.5, s.Min)
	assert.Equal(t, 0.5, s.Max)
	assert.Equal(t, 0.5, s.Mean)
	assert.Zero(t, s.StdDev)
}

func TestStatsMultipleEntries(t *testing.T) {
	h := &NetworkHistory{
		SSID:       "n",
		Timestamps: []float64{1, 2, 3, 4},
		Latencies:  []float64{0.2, 0.4, 0.6, 0.8},
	}
	s := h.Stats()

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 0.2, s.Min, 1e-12)
	assert.InDelta(t, 0.8, s.Max, 1e-12)
	assert.InDelta(t, 0.5, s.Mean, 1e-12)
	// Sample standard deviation of {0.2,0.4,0.6,0.8}.
	assert.InDelta(t, 0.2581988897, s.StdDev, 1e-9)
}

func TestStatsEmptyHistory(t *testing.T) {
	h := &NetworkHistory{SSID: "n"}
	assert.Equal(t, LatencyStats{}, h.Stats())
}
