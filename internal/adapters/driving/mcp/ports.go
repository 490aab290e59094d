package mcp

import (
	"github.com/custodia-labs/printdrop/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// History reads the import journal.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.History == nil {
		return ErrMissingHistoryService
	}
	return nil
}
