// Package api serves the read-only HTTP status surface of the collector:
// the current aggregation snapshot with latency statistics, queue health,
// and a liveness probe. It deliberately offers no write operations; the
// sampling interval and policies are process-lifetime constants.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/queue"
	"github.com/banshee-data/sightline/internal/sightings"
	"github.com/banshee-data/sightline/internal/version"
)

// Server holds the handler dependencies.
type Server struct {
	cache *SnapshotCache
	queue *queue.Queue
}

// NewServer creates an API server over the snapshot cache and queue.
func NewServer(cache *SnapshotCache, q *queue.Queue) *Server {
	return &Server{cache: cache, queue: q}
}

// ServeMux returns a mux with all API routes mounted.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/networks", s.handleNetworks)
	mux.HandleFunc("GET /api/queue", s.handleQueue)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// NetworkStatus is the per-network JSON shape returned by /api/networks.
type NetworkStatus struct {
	SSID       string                 `json:"ssid"`
	Timestamps []float64              `json:"timestamps"`
	Latencies  []float64              `json:"latencies"`
	Stats      sightings.LatencyStats `json:"stats"`
}

func (s *Server) handleNetworks(w http.ResponseWriter, r *http.Request) {
	snapshot := s.cache.Latest()
	out := make([]NetworkStatus, 0, len(snapshot))
	for i := range snapshot {
		h := &snapshot[i]
		out = append(out, NetworkStatus{
			SSID:       h.SSID,
			Timestamps: h.Timestamps,
			Latencies:  h.Latencies,
			Stats:      h.Stats(),
		})
	}
	writeJSON(w, out)
}

// QueueStatus is the JSON shape returned by /api/queue.
type QueueStatus struct {
	Depth    int    `json:"depth"`
	Capacity int    `json:"capacity"`
	Policy   string `json:"policy"`
	Dropped  uint64 `json:"dropped"`
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, QueueStatus{
		Depth:    s.queue.Len(),
		Capacity: s.queue.Cap(),
		Policy:   s.queue.Policy().String(),
		Dropped:  s.queue.Dropped(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"git_sha": version.GitSHA,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("api: failed to encode response: %v", err)
	}
}
