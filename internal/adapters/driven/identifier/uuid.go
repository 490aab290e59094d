// Package identifier provides document identifier sources.
package identifier

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
)

// Ensure UUIDGenerator implements the interface.
var _ driven.IDGenerator = (*UUIDGenerator)(nil)

// UUIDGenerator produces random (version 4) UUIDs in their canonical
// lowercase hyphenated form, e.g. "2f1c6a0e-4b8d-4e0f-9a51-7d3c2b1e0f6a".
type UUIDGenerator struct{}

// NewUUIDGenerator creates a UUID identifier source.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a fresh UUID string.
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
