package branchpred

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// TraceRecord is one line of a BP trace file: "<addr_hex> <t|n>".
type TraceRecord struct {
	Addr  uint64
	Taken bool
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

	var addr uint64
	var outcome string
	n, err := fmt.Sscanf(t.scanner.Text(), "%x %s", &addr, &outcome)
	if err != nil || n != 2 {
		return TraceRecord{}, false
	}

	switch outcome {
	case "t":
		return TraceRecord{Addr: addr, Taken: true}, true
	case "n":
		return TraceRecord{Addr: addr, Taken: false}, true
	default:
		return TraceRecord{}, false
	}
}
