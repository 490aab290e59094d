// Package domain defines the core business entities for printdrop.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Metadata: The sidecar record written next to every imported PDF
//   - ScanState / ReceiveState: Progress of one inbound connection
//   - ImportRecord: The outcome of one handled connection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
