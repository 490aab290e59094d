package services

import (
	"bytes"

	"github.com/custodia-labs/printdrop/internal/core/domain"
)

const (
	// CarryLimit is the most bytes kept from an unterminated line
	// between two Scan calls.
	CarryLimit = 1024

	// pdfMarker opens the line after which the payload starts.
	pdfMarker = "%PDF-"

	lineEnd = '\n'
)

// BoundaryDetector locates the document payload inside a raw print stream.
//
// The payload starts right after the line terminator of the first line
// beginning with "%PDF-". The marker line itself is not part of the payload.
// A detector is used for exactly one connection and never holds more than
// CarryLimit bytes of the stream.
type BoundaryDetector struct {
	// carry always starts with a line terminator while searching, so the
	// first position of a new chunk behaves like the start of a line.
	carry []byte
	state domain.ScanState
}

// NewBoundaryDetector creates a detector positioned at the start of a stream.
func NewBoundaryDetector() *BoundaryDetector {
	return &BoundaryDetector{
		carry: []byte{lineEnd},
		state: domain.ScanSearching,
	}
}

// State reports whether the payload start has been found.
func (d *BoundaryDetector) State() domain.ScanState {
	return d.state
}

// Carried returns the number of bytes retained for the next Scan call.
func (d *BoundaryDetector) Carried() int {
	return len(d.carry)
}

// Scan classifies the next chunk of the stream.
//
// When found is true, chunk[offset:] is the first part of the payload.
// Once the marker has been found every later chunk is payload in full, so
// Scan returns (0, true) without looking at it.
func (d *BoundaryDetector) Scan(chunk []byte) (offset int, found bool) {
	if d.state == domain.ScanFound {
		return 0, true
	}
	if len(chunk) == 0 {
		return 0, false
	}

	carried := len(d.carry)
	text := make([]byte, 0, carried+len(chunk))
	text = append(text, d.carry...)
	text = append(text, chunk...)

	// pos always indexes a line terminator; the line starts at pos+1.
	pos := 0
	for {
		line := text[pos+1:]
		next := bytes.IndexByte(line, lineEnd)

		if next < 0 {
			// Unterminated line: the marker may still complete, or its
			// terminator may arrive, in the next chunk.
			d.retain(text[pos:])
			return 0, false
		}

		if bytes.HasPrefix(line, []byte(pdfMarker)) {
			payloadStart := pos + 1 + next + 1
			d.state = domain.ScanFound
			d.carry = nil
			return payloadStart - carried, true
		}

		pos += 1 + next
	}
}

// retain keeps the start of an unterminated line, bounded by CarryLimit.
// Only the first bytes of a line decide whether it is the marker line, so
// dropping its tail never changes the outcome.
func (d *BoundaryDetector) retain(line []byte) {
	if len(line) > CarryLimit {
		line = line[:CarryLimit]
	}
	d.carry = bytes.Clone(line)
}
