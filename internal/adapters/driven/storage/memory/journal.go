package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
)

// Ensure ImportJournal implements the interface.
var _ driven.ImportJournal = (*ImportJournal)(nil)

// ImportJournal keeps import records in memory. Used when the SQLite
// journal is disabled or cannot be opened, and in tests.
type ImportJournal struct {
	mu      sync.RWMutex
	records []domain.ImportRecord
}

// NewImportJournal creates an empty in-memory journal.
func NewImportJournal() *ImportJournal {
	return &ImportJournal{}
}

// Record appends an import record.
func (j *ImportJournal) Record(_ context.Context, rec domain.ImportRecord) error {
	if !rec.Outcome.IsValid() {
		return domain.ErrInvalidInput
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return nil
}

// List returns the most recent records, newest first.
func (j *ImportJournal) List(_ context.Context, limit int) ([]domain.ImportRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := len(j.records)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]domain.ImportRecord, 0, n)
	for i := len(j.records) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, j.records[i])
	}
	return result, nil
}

// Find returns the newest imported record for documentID.
func (j *ImportJournal) Find(_ context.Context, documentID string) (*domain.ImportRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	for i := len(j.records) - 1; i >= 0; i-- {
		rec := j.records[i]
		if rec.ID == documentID && rec.Outcome == domain.OutcomeImported {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("import %s: %w", documentID, domain.ErrNotFound)
}

// Close is a no-op for the memory journal.
func (j *ImportJournal) Close() error {
	return nil
}
