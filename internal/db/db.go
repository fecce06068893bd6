// Package db archives aggregated sightings to sqlite so sighting history
// survives process restarts and can be queried offline. The archive is a
// best-effort secondary sink: the text report remains the primary output and
// archive failures never block aggregation.
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the sqlite handle for the sighting archive.
type DB struct {
	*sql.DB
	runID string
}

// NewDB opens (creating if needed) the archive at path and ensures the
// schema exists. Each open gets a fresh run ID so rows from different
// process lifetimes can be told apart: sighting timestamps are monotonic
// seconds since process start and only compare within one run.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sightings (
			run_id            TEXT,
			ssid              TEXT,
			seen_at           DOUBLE,
			latency           DOUBLE,
			recorded_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sightings_run_ssid
			ON sightings (run_id, ssid);
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			started_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	runID := uuid.New().String()
	if _, err := db.Exec(`INSERT INTO runs (run_id) VALUES (?)`, runID); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, runID: runID}, nil
}

// RunID returns the identifier assigned to this process lifetime.
func (db *DB) RunID() string {
	return db.runID
}

// RecordSighting inserts one aggregated sighting row.
func (db *DB) RecordSighting(ssid string, seenAt, latency float64) error {
	_, err := db.Exec(
		`INSERT INTO sightings (run_id, ssid, seen_at, latency) VALUES (?, ?, ?, ?)`,
		db.runID, ssid, seenAt, latency,
	)
	if err != nil {
		return fmt.Errorf("failed to record sighting for %q: %w", ssid, err)
	}
	return nil
}

// SightingRow is one archived sighting as returned by SightingsForRun.
type SightingRow struct {
	SSID       string
	SeenAt     float64
	Latency    float64
	RecordedAt time.Time
}

// SightingsForRun returns every archived sighting for the given run in
// insertion order.
func (db *DB) SightingsForRun(runID string) ([]SightingRow, error) {
	rows, err := db.Query(
		`SELECT ssid, seen_at, latency, recorded_at FROM sightings WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sightings for run %q: %w", runID, err)
	}
	defer rows.Close()

	var out []SightingRow
	for rows.Next() {
		var r SightingRow
		if err := rows.Scan(&r.SSID, &r.SeenAt, &r.Latency, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
