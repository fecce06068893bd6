package api

import (
	"sync"

	"github.com/banshee-data/sightline/internal/sightings"
)

// SnapshotCache holds the most recent aggregation snapshot for the HTTP
// handlers. It participates in the pipeline as a sink, which keeps the store
// itself private to the aggregation task: the API only ever sees immutable
// copies.
type SnapshotCache struct {
	mu     sync.RWMutex
	latest []sightings.NetworkHistory
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Persist replaces the cached snapshot. It never fails.
func (c *SnapshotCache) Persist(snapshot []sightings.NetworkHistory) error {
	c.mu.Lock()
	c.latest = snapshot
	c.mu.Unlock()
	return nil
}

// Latest returns the most recent snapshot, or nil before the first
// aggregation update.
func (c *SnapshotCache) Latest() []sightings.NetworkHistory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}
