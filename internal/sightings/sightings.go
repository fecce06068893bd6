// Package sightings defines the sighting value passed between the two
// pipeline tasks and the aggregation store that accumulates per-network
// history over the lifetime of the process.
package sightings

// MaxSSIDLen is the longest raw identifier accepted from a sampling source,
// excluding the line terminator.
const MaxSSIDLen = 63

// Sighting is one observed network identifier plus the monotonic time it was
// observed, in seconds since process start.
type Sighting struct {
	SSID      string
	Timestamp float64
}

// NetworkHistory is the append-only record of every distinct sighting of one
// network. Latencies[i] is the time Timestamps[i] spent in the queue plus
// scheduling delay before the aggregation task observed it.
type NetworkHistory struct {
	SSID       string
	Timestamps []float64
	Latencies  []float64
}

// Store maps network identifiers to their sighting histories. Keys are
// unique and never removed; report order is insertion order, so a network
// keeps its position across report rewrites.
//
// The store is mutated only by the aggregation task and needs no lock of its
// own; concurrent readers take a Snapshot instead.
type Store struct {
	histories map[string]*NetworkHistory
	order     []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{histories: make(map[string]*NetworkHistory)}
}

// Record merges one dequeued sighting into the store. observedAt is the
// monotonic time the aggregation task dequeued the sighting; the difference
// from the sighting's own timestamp becomes the recorded latency.
//
// A sighting whose timestamp equals the most recent one recorded for the
// same network is a repeated delivery of the same underlying scan result and
// is discarded without mutation. Record reports whether the store changed.
func (st *Store) Record(s Sighting, observedAt float64) bool {
	h, found := st.histories[s.SSID]
	if found {
		if h.Timestamps[len(h.Timestamps)-1] == s.Timestamp {
			return false
		}
		h.Timestamps = append(h.Timestamps, s.Timestamp)
		h.Latencies = append(h.Latencies, observedAt-s.Timestamp)
		return true
	}

	st.histories[s.SSID] = &NetworkHistory{
		SSID:       s.SSID,
		Timestamps: []float64{s.Timestamp},
		Latencies:  []float64{observedAt - s.Timestamp},
	}
	st.order = append(st.order, s.SSID)
	return true
}

// Len returns the number of distinct networks recorded.
func (st *Store) Len() int {
	return len(st.histories)
}

// History returns the history for one network, or nil if never sighted.
func (st *Store) History(ssid string) *NetworkHistory {
	return st.histories[ssid]
}

// Snapshot returns a deep copy of every history in insertion order. The copy
// shares no memory with the store, so sinks may hold it across further
// aggregation cycles.
func (st *Store) Snapshot() []NetworkHistory {
	out := make([]NetworkHistory, 0, len(st.order))
	for _, ssid := range st.order {
		h := st.histories[ssid]
		out = append(out, NetworkHistory{
			SSID:       h.SSID,
			Timestamps: append([]float64(nil), h.Timestamps...),
			Latencies:  append([]float64(nil), h.Latencies...),
		})
	}
	return out
}
