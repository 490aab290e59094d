package driven

import (
	"context"
	"io"
)

// DocumentStore creates sinks for received documents.
// Backed by a directory on the local filesystem.
type DocumentStore interface {
	// Open obtains a fresh identifier and creates the payload file.
	// Returns an error wrapping domain.ErrFileOpen on failure.
	Open(ctx context.Context) (DocumentSink, error)
}

// DocumentSink is one in-flight document: a payload file and its
// sidecar metadata, committed together or not at all.
type DocumentSink interface {
	// Write appends payload bytes. Errors wrap domain.ErrIO.
	io.Writer

	// ID returns the document identifier.
	ID() string

	// Commit writes the metadata file and then closes the payload.
	// On failure both artifacts are removed and the error wraps
	// domain.ErrIO or domain.ErrMetadataWrite.
	Commit(ctx context.Context) error

	// Release closes and deletes the payload unless Commit succeeded.
	// Safe to call more than once; intended to be deferred right after Open.
	Release() error
}
