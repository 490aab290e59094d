package driven

import (
	"context"

	"github.com/custodia-labs/printdrop/internal/core/domain"
)

// ImportJournal persists the outcome of every handled connection.
type ImportJournal interface {
	// Record appends an import record.
	Record(ctx context.Context, rec domain.ImportRecord) error

	// List returns the most recent records, newest first.
	// A limit of zero or less returns all records.
	List(ctx context.Context, limit int) ([]domain.ImportRecord, error)

	// Find returns the imported record for documentID. Discarded and
	// failed records are never returned, even when they carry the ID.
	// Returns an error wrapping domain.ErrNotFound when there is none.
	Find(ctx context.Context, documentID string) (*domain.ImportRecord, error)

	// Close releases the journal's resources.
	Close() error
}
