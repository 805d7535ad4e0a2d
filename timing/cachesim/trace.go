package cachesim

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// TraceRecord is one line of a CacheSim trace file: "<r|w> <addr_hex>".
type TraceRecord struct {
	Addr uint64
	Read bool
}

// TraceReader lazily scans a trace file one record at a time.
type TraceReader struct {
	f       *os.File
	scanner *bufio.Scanner
}

// OpenTrace opens path for reading. The only error returned is an I/O error
// (spec.md §7); a malformed trace is never an open-time error.
func OpenTrace(path string) (*TraceReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &TraceReader{f: f, scanner: bufio.NewScanner(f)}, nil
}

// NewTraceReader wraps an already-open reader, bypassing the filesystem.
// Used by tests to feed in-memory trace text.
func NewTraceReader(r io.Reader) *TraceReader {
	return &TraceReader{scanner: bufio.NewScanner(r)}
}

// Close releases the underlying file, if any.
func (t *TraceReader) Close() error {
	if t.f == nil {
		return nil
	}
	return t.f.Close()
}

// Next returns the next well-formed record, or (zero, false) once the trace
// is exhausted or the next line fails to parse.
func (t *TraceReader) Next() (TraceRecord, bool) {
	if !t.scanner.Scan() {
		return TraceRecord{}, false
	}

	var rw string
	var addr uint64
	n, err := fmt.Sscanf(t.scanner.Text(), "%s %x", &rw, &addr)
	if err != nil || n != 2 {
		return TraceRecord{}, false
	}

	switch rw {
	case "r":
		return TraceRecord{Addr: addr, Read: true}, true
	case "w":
		return TraceRecord{Addr: addr, Read: false}, true
	default:
		return TraceRecord{}, false
	}
}
