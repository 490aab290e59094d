package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap them with context so callers can match with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Document Sink Errors.

	// ErrFileOpen indicates the payload file could not be created.
	// The connection must not proceed.
	ErrFileOpen = errors.New("cannot open file to write the pdf")

	// ErrIO indicates writing or flushing payload bytes failed.
	ErrIO = errors.New("pdf write failed")

	// ErrMetadataWrite indicates the sidecar metadata file could not be written.
	// The payload file is discarded together with it.
	ErrMetadataWrite = errors.New("failed to write metadata file")

	// ErrSinkReleased indicates an operation on a sink that was already
	// committed or released.
	ErrSinkReleased = errors.New("sink already released")
)
