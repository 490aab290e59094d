// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The two pieces with real invariants live here: the BoundaryDetector,
// which finds the payload start in an arbitrarily chunked stream, and the
// Receiver, which commits a document only after payload and metadata are
// both written.
//
// Services are pure Go with no CGO or external dependencies.
package services
