package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/printdrop/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for printdrop resources.
	uriScheme = "printdrop://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "imports",
		Name:        "imports",
		Description: "Most recent entries of the import journal",
		MIMEType:    "application/json",
	}, s.handleImportsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "imports/{documentId}",
		Name:        "import",
		Description: "Journal entry for the job that produced a document",
		MIMEType:    "application/json",
	}, s.handleImportResource)
}

func (s *Server) handleImportsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.History.Recent(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}

	infos := make([]ImportOutput, len(records))
	for i := range records {
		infos[i] = toImportOutput(&records[i])
	}

	return jsonResult(req.Params.URI, infos)
}

func (s *Server) handleImportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// printdrop://imports/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.History.Find(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("finding import: %w", err)
	}

	return jsonResult(req.Params.URI, toImportOutput(rec))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like printdrop://imports/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "imports/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
