package services

import (
	"context"

	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
	"github.com/custodia-labs/printdrop/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is used when a caller asks for a non-positive limit.
const DefaultHistoryLimit = 20

// HistoryService reads the import journal.
type HistoryService struct {
	journal driven.ImportJournal
}

// NewHistoryService creates a history service. A nil journal yields no history.
func NewHistoryService(journal driven.ImportJournal) *HistoryService {
	return &HistoryService{journal: journal}
}

// Recent returns up to limit records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.ImportRecord, error) {
	if s.journal == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.journal.List(ctx, limit)
}

// Find returns the imported record for documentID. Connections that were
// discarded or failed are not documents and yield domain.ErrNotFound.
func (s *HistoryService) Find(ctx context.Context, documentID string) (*domain.ImportRecord, error) {
	if documentID == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.journal == nil {
		return nil, domain.ErrNotFound
	}
	return s.journal.Find(ctx, documentID)
}
