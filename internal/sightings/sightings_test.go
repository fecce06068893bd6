package sightings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordCreatesHistoryOnFirstSighting(t *testing.T) {
	st := NewStore()

	if !st.Record(Sighting{SSID: "home", Timestamp: 1.0}, 1.25) {
		t.Fatal("first sighting reported no change")
	}

	h := st.History("home")
	if h == nil {
		t.Fatal("history missing after first sighting")
	}
	want := &NetworkHistory{SSID: "home", Timestamps: []float64{1.0}, Latencies: []float64{0.25}}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordAppendsDistinctTimestamps(t *testing.T) {
	st := NewStore()
	st.Record(Sighting{SSID: "A", Timestamp: 1.0}, 1.1)
	st.Record(Sighting{SSID: "B", Timestamp: 1.0}, 1.2)
	st.Record(Sighting{SSID: "A", Timestamp: 2.0}, 2.3)

	if st.Len() != 2 {
		t.Fatalf("store has %d networks, want 2", st.Len())
	}

	wantA := &NetworkHistory{SSID: "A", Timestamps: []float64{1.0, 2.0}, Latencies: []float64{0.1, 0.3}}
	if diff := cmp.Diff(wantA, st.History("A"), approxFloats()); diff != "" {
		t.Errorf("history A mismatch (-want +got):\n%s", diff)
	}

	wantB := &NetworkHistory{SSID: "B", Timestamps: []float64{1.0}, Latencies: []float64{0.2}}
	if diff := cmp.Diff(wantB, st.History("B"), approxFloats()); diff != "" {
		t.Errorf("history B mismatch (-want +got):\n%s", diff)
	}
}

// approxFloats tolerates float64 arithmetic error in derived latencies.
func approxFloats() cmp.Option {
	return cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	})
}

// TestRecordDiscardsRepeatedTimestamp covers the duplicate-delivery rule: a
// sighting whose timestamp equals the newest recorded one for that network
// must not double-count.
func TestRecordDiscardsRepeatedTimestamp(t *testing.T) {
	st := NewStore()
	st.Record(Sighting{SSID: "cafe", Timestamp: 5.0}, 5.1)

	if st.Record(Sighting{SSID: "cafe", Timestamp: 5.0}, 5.9) {
		t.Error("duplicate timestamp reported as a change")
	}

	h := st.History("cafe")
	if len(h.Timestamps) != 1 {
		t.Errorf("duplicate created %d entries, want 1", len(h.Timestamps))
	}
	// The latency of the original entry must be untouched.
	if h.Latencies[0] != 0.1 {
		t.Errorf("latency mutated to %v by duplicate", h.Latencies[0])
	}
}

// An earlier timestamp reappearing is not the newest entry, so it is
// appended; only the most recent timestamp participates in duplicate
// detection. This mirrors the merge rule of the deployed collector.
func TestRecordComparesOnlyNewestTimestamp(t *testing.T) {
	st := NewStore()
	st.Record(Sighting{SSID: "n", Timestamp: 1.0}, 1.1)
	st.Record(Sighting{SSID: "n", Timestamp: 2.0}, 2.1)

	if !st.Record(Sighting{SSID: "n", Timestamp: 1.0}, 3.0) {
		t.Error("old timestamp was treated as duplicate of the newest")
	}
	if got := len(st.History("n").Timestamps); got != 3 {
		t.Errorf("history has %d entries, want 3", got)
	}
}

func TestSnapshotIsDeepCopyInInsertionOrder(t *testing.T) {
	st := NewStore()
	st.Record(Sighting{SSID: "first", Timestamp: 1.0}, 1.1)
	st.Record(Sighting{SSID: "second", Timestamp: 2.0}, 2.1)
	st.Record(Sighting{SSID: "first", Timestamp: 3.0}, 3.1)

	snap := st.Snapshot()
	if len(snap) != 2 || snap[0].SSID != "first" || snap[1].SSID != "second" {
		t.Fatalf("snapshot order = %v", ssids(snap))
	}

	// Mutating the snapshot must not reach the store.
	snap[0].Timestamps[0] = 999
	if st.History("first").Timestamps[0] == 999 {
		t.Error("snapshot shares memory with the store")
	}

	// Later store growth must not reach an old snapshot.
	st.Record(Sighting{SSID: "first", Timestamp: 4.0}, 4.1)
	if len(snap[0].Timestamps) != 2 {
		t.Error("old snapshot grew with the store")
	}
}

func ssids(snap []NetworkHistory) []string {
	out := make([]string, len(snap))
	for i, h := range snap {
		out[i] = h.SSID
	}
	return out
}
