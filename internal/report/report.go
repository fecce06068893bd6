// Package report persists aggregation snapshots. The text writer produces
// the operator-facing sighting report; the Sink interface lets the pipeline
// fan the same snapshot out to other destinations (the sqlite archive)
// without knowing about them.
package report

import (
	"bytes"
	"fmt"

	"github.com/banshee-data/sightline/internal/fsutil"
	"github.com/banshee-data/sightline/internal/sightings"
)

// Sink accepts a full snapshot of the aggregation store. Persist is called
// after every aggregation update; implementations must tolerate being called
// with snapshots that differ only in their newest entry. Errors are logged
// by the caller and never interrupt aggregation.
type Sink interface {
	Persist(snapshot []sightings.NetworkHistory) error
}

// Writer renders the sighting report to a file, rewriting it in full on
// every persist so the file always reflects the complete store.
type Writer struct {
	path string
	fs   fsutil.FileSystem
}

// NewWriter creates a report writer targeting path on the real filesystem.
func NewWriter(path string) *Writer {
	return &Writer{path: path, fs: fsutil.OSFileSystem{}}
}

// NewWriterFS creates a report writer on an explicit filesystem. Used by
// tests.
func NewWriterFS(path string, fs fsutil.FileSystem) *Writer {
	return &Writer{path: path, fs: fs}
}

// Persist renders the snapshot and writes it to the report file.
func (w *Writer) Persist(snapshot []sightings.NetworkHistory) error {
	if err := w.fs.WriteFile(w.path, Render(snapshot), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", w.path, err)
	}
	return nil
}

// Render produces the report text: a fixed header, then per network the
// identifier on its own line followed by one line per sighting with the
// timestamp to millisecond precision and the queue latency to microsecond
// precision.
func Render(snapshot []sightings.NetworkHistory) []byte {
	var buf bytes.Buffer

	buf.WriteString("SSID\n")
	buf.WriteString("    timestamp  (latency)\n")
	buf.WriteString("=========================\n\n")

	for _, h := range snapshot {
		fmt.Fprintf(&buf, "%s\n", h.SSID)
		for i, ts := range h.Timestamps {
			fmt.Fprintf(&buf, "    %.3f   (%.6f)\n", ts, h.Latencies[i])
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

var _ Sink = (*Writer)(nil)
