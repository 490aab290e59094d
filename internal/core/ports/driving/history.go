package driving

import (
	"context"

	"github.com/custodia-labs/printdrop/internal/core/domain"
)

// HistoryService exposes previously handled connections.
type HistoryService interface {
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ImportRecord, error)

	// Find returns the record of the import that produced documentID.
	// Returns domain.ErrNotFound if the journal has no such entry.
	Find(ctx context.Context, documentID string) (*domain.ImportRecord, error)
}
