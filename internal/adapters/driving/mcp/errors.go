// Package mcp provides an MCP (Model Context Protocol) server adapter for printdrop.
// It lets AI assistants inspect the import journal: which print jobs arrived,
// which were imported and why others were dropped.
package mcp

import "errors"

// ErrMissingHistoryService is returned when the history service is not provided.
var ErrMissingHistoryService = errors.New("mcp: history service is required")
