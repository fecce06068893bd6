package db

import (
	"github.com/banshee-data/sightline/internal/sightings"
)

// ArchiveSink adapts the sqlite archive to the snapshot-based Sink contract
// used by the pipeline. Snapshots arrive cumulatively (the full store after
// every update), so the sink tracks how many entries per network it has
// already archived and inserts only the new tail.
type ArchiveSink struct {
	db       *DB
	archived map[string]int
}

// NewArchiveSink creates a sink over an open archive.
func NewArchiveSink(db *DB) *ArchiveSink {
	return &ArchiveSink{db: db, archived: make(map[string]int)}
}

// Persist archives every entry not yet recorded. On partial failure the
// already-inserted entries are not re-inserted on the next call.
func (a *ArchiveSink) Persist(snapshot []sightings.NetworkHistory) error {
	for _, h := range snapshot {
		for i := a.archived[h.SSID]; i < len(h.Timestamps); i++ {
			if err := a.db.RecordSighting(h.SSID, h.Timestamps[i], h.Latencies[i]); err != nil {
				return err
			}
			a.archived[h.SSID] = i + 1
		}
	}
	return nil
}
