package scan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

// serialPorter is the minimal surface of a serial port the source needs.
// The abstraction allows the polling logic to be tested without hardware.
type serialPorter interface {
	io.ReadCloser
	SetReadTimeout(t time.Duration) error
}

// SerialSource reads newline-delimited identifiers from a serial-attached
// scanner module. The scanner streams continuously; each poll drains the
// lines that arrived since the previous cycle. A partial trailing line is
// carried over to the next poll rather than truncated.
type SerialSource struct {
	port    serialPorter
	timeout time.Duration
	carry   []byte
	desc    string
}

// SerialReadTimeout bounds how long a poll waits for the first byte of a
// quiet port. It must stay well under the sampling interval.
const SerialReadTimeout = 100 * time.Millisecond

// maxPollBytes bounds how much buffered scanner output one poll may drain,
// so a flooding port cannot stretch the sampling cycle.
const maxPollBytes = 4096

// NewSerialSource opens the scanner module on the given port at the module's
// fixed line rate.
func NewSerialSource(path string, baud int) (*SerialSource, error) {
	if baud <= 0 {
		baud = 115200
	}
	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("opening scanner port %s: %w", path, err)
	}
	if err := port.SetReadTimeout(SerialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("configuring scanner port %s: %w", path, err)
	}
	return &SerialSource{port: port, timeout: SerialReadTimeout, desc: path}, nil
}

// newSerialSourceForPort wires a source directly onto a port implementation.
// Used by tests.
func newSerialSourceForPort(port serialPorter) *SerialSource {
	return &SerialSource{port: port, timeout: SerialReadTimeout, desc: "test"}
}

// Poll drains complete lines currently buffered on the port. A read timeout
// (zero-byte read) ends the poll; the source never blocks past it waiting
// for a line terminator.
func (s *SerialSource) Poll(ctx context.Context) ([]string, error) {
	var lines []string
	buf := make([]byte, 256)
	drained := 0

	for drained < maxPollBytes {
		if err := ctx.Err(); err != nil {
			return lines, err
		}

		n, err := s.port.Read(buf)
		if n > 0 {
			drained += n
			s.carry = append(s.carry, buf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return lines, fmt.Errorf("reading scanner port: %w", err)
		}
		if n == 0 {
			break
		}

		for {
			idx := bytes.IndexByte(s.carry, '\n')
			if idx < 0 {
				break
			}
			line := strings.TrimRight(string(s.carry[:idx]), "\r")
			s.carry = s.carry[idx+1:]
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}

// Close releases the port.
func (s *SerialSource) Close() error {
	return s.port.Close()
}

func (s *SerialSource) String() string {
	return fmt.Sprintf("serial:%s", s.desc)
}
