package oopipe

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// TraceRecord is one line of an OoO-Pipe trace file:
// "<pc_hex> <op_dec> <dest_dec> <src1_dec> <src2_dec>".
type TraceRecord struct {
	PC                   uint64
	Op, Dest, Src1, Src2 int
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
// is exhausted or the next line fails to parse. A malformed record is
// treated as end-of-trace, never as an error (spec.md §7).
func (t *TraceReader) Next() (TraceRecord, bool) {
	if !t.scanner.Scan() {
		return TraceRecord{}, false
	}

	var rec TraceRecord
	n, err := fmt.Sscanf(t.scanner.Text(), "%x %d %d %d %d", &rec.PC, &rec.Op, &rec.Dest, &rec.Src1, &rec.Src2)
	if err != nil || n != 5 {
		return TraceRecord{}, false
	}
	return rec, true
}
