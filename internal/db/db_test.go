package db

import (
	"path/filepath"
	"testing"

	"github.com/banshee-data/sightline/internal/sightings"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := NewDB(filepath.Join(t.TempDir(), "sightings.db"))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestRecordAndQuerySightings(t *testing.T) {
	d := openTestDB(t)

	if err := d.RecordSighting("HomeNet", 1.0, 0.25); err != nil {
		t.Fatal(err)
	}
	if err := d.RecordSighting("CafeGuest", 2.0, 0.5); err != nil {
		t.Fatal(err)
	}

	rows, err := d.SightingsForRun(d.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].SSID != "HomeNet" || rows[0].SeenAt != 1.0 || rows[0].Latency != 0.25 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].SSID != "CafeGuest" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestRunsAreDistinct(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sightings.db")

	first, err := NewDB(path)
	if err != nil {
		t.Fatal(err)
	}
	firstRun := first.RunID()
	if err := first.RecordSighting("n", 1.0, 0.1); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := NewDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	if second.RunID() == firstRun {
		t.Error("reopened archive reused the previous run ID")
	}

	// Rows from the first lifetime remain queryable under its run ID.
	rows, err := second.SightingsForRun(firstRun)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("previous run has %d rows, want 1", len(rows))
	}
}

func TestArchiveSinkInsertsOnlyNewEntries(t *testing.T) {
	d := openTestDB(t)
	sink := NewArchiveSink(d)

	snap1 := []sightings.NetworkHistory{
		{SSID: "A", Timestamps: []float64{1.0}, Latencies: []float64{0.1}},
	}
	if err := sink.Persist(snap1); err != nil {
		t.Fatal(err)
	}

	// The next snapshot repeats A's first entry and adds more.
	snap2 := []sightings.NetworkHistory{
		{SSID: "A", Timestamps: []float64{1.0, 2.0}, Latencies: []float64{0.1, 0.2}},
		{SSID: "B", Timestamps: []float64{2.0}, Latencies: []float64{0.3}},
	}
	if err := sink.Persist(snap2); err != nil {
		t.Fatal(err)
	}
	// A third, identical persist must be a no-op.
	if err := sink.Persist(snap2); err != nil {
		t.Fatal(err)
	}

	rows, err := d.SightingsForRun(d.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("archive has %d rows, want 3", len(rows))
	}
	if rows[1].SSID != "A" || rows[1].SeenAt != 2.0 {
		t.Errorf("row 1 = %+v, want A at 2.0", rows[1])
	}
	if rows[2].SSID != "B" {
		t.Errorf("row 2 = %+v, want B", rows[2])
	}
}
