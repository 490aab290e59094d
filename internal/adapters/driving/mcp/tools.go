package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/printdrop/internal/core/domain"
)

const defaultImportLimit = 10

// RecentImportsInput is the input schema for the recent_imports tool.
type RecentImportsInput struct {
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of journal entries to inspect (default 10)"`
	Outcome string `json:"outcome,omitempty" jsonschema:"only return entries with this outcome: imported, discarded or failed"`
}

// RecentImportsOutput is the output schema for the recent_imports tool.
type RecentImportsOutput struct {
	Imports []ImportOutput `json:"imports"`
	Count   int            `json:"count"`
}

// ImportOutput represents a single journal entry.
type ImportOutput struct {
	DocumentID string `json:"document_id,omitempty"`
	Outcome    string `json:"outcome"`
	Bytes      int64  `json:"bytes"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	StartedAt  string `json:"started_at"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func toImportOutput(rec *domain.ImportRecord) ImportOutput {
	return ImportOutput{
		DocumentID: rec.ID,
		Outcome:    string(rec.Outcome),
		Bytes:      rec.Bytes,
		RemoteAddr: rec.RemoteAddr,
		StartedAt:  rec.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: rec.Duration().Milliseconds(),
		Error:      rec.Error,
	}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recent_imports",
		Description: "List the most recent print jobs received, newest first",
	}, s.handleRecentImports)
}

// handleRecentImports handles the recent_imports tool invocation.
// The outcome filter applies within the inspected window.
func (s *Server) handleRecentImports(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecentImportsInput,
) (*mcp.CallToolResult, RecentImportsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultImportLimit
	}

	outcome := domain.ImportOutcome(input.Outcome)
	if outcome != "" && !outcome.IsValid() {
		return nil, RecentImportsOutput{}, fmt.Errorf("%w: unknown outcome %q", domain.ErrInvalidInput, input.Outcome)
	}

	records, err := s.ports.History.Recent(ctx, limit)
	if err != nil {
		return nil, RecentImportsOutput{}, err
	}

	output := RecentImportsOutput{Imports: make([]ImportOutput, 0, len(records))}
	for i := range records {
		if outcome != "" && records[i].Outcome != outcome {
			continue
		}
		output.Imports = append(output.Imports, toImportOutput(&records[i]))
	}
	output.Count = len(output.Imports)

	return nil, output, nil
}
