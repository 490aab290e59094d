package domain

import "time"

// ScanState tracks whether the document start marker has been seen.
type ScanState int

const (
	// ScanSearching means the marker has not been found yet.
	ScanSearching ScanState = iota

	// ScanFound means the payload start was located. It never reverts.
	ScanFound
)

// String returns the state name.
func (s ScanState) String() string {
	switch s {
	case ScanSearching:
		return "searching"
	case ScanFound:
		return "found"
	default:
		return "unknown"
	}
}

// ReceiveState is the state of one connection being handled.
type ReceiveState int

const (
	// StateHeaderSearch discards bytes until the marker line ends.
	StateHeaderSearch ReceiveState = iota

	// StateBodyCopy forwards every byte to the sink.
	StateBodyCopy

	// StateCommitted means the document and its metadata are durable.
	StateCommitted

	// StateDiscarded means nothing was kept.
	StateDiscarded
)

// String returns the state name.
func (s ReceiveState) String() string {
	switch s {
	case StateHeaderSearch:
		return "header_search"
	case StateBodyCopy:
		return "body_copy"
	case StateCommitted:
		return "committed"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// ImportOutcome is the final result of one connection.
type ImportOutcome string

const (
	// OutcomeImported means a PDF and its metadata were committed.
	OutcomeImported ImportOutcome = "imported"

	// OutcomeDiscarded means the stream ended before the marker line.
	OutcomeDiscarded ImportOutcome = "discarded"

	// OutcomeFailed means a sink error aborted the connection.
	OutcomeFailed ImportOutcome = "failed"
)

// IsValid returns true if the outcome is a known value.
func (o ImportOutcome) IsValid() bool {
	switch o {
	case OutcomeImported, OutcomeDiscarded, OutcomeFailed:
		return true
	default:
		return false
	}
}

// ImportRecord describes one handled connection.
type ImportRecord struct {
	// ID is the document identifier. Empty when no sink was opened.
	ID string

	// Outcome is the final result.
	Outcome ImportOutcome

	// Bytes is the number of payload bytes written to the sink.
	Bytes int64

	// RemoteAddr is the peer address of the connection.
	RemoteAddr string

	// StartedAt is when the connection was accepted.
	StartedAt time.Time

	// FinishedAt is when handling completed.
	FinishedAt time.Time

	// Error holds the failure message for OutcomeFailed.
	Error string
}

// Duration returns how long the connection took to handle.
func (r ImportRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
