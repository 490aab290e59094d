package mcp

import (
	"context"

	"github.com/custodia-labs/printdrop/internal/core/domain"
)

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records   []domain.ImportRecord
	err       error
	lastLimit int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.ImportRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

func (m *mockHistoryService) Find(_ context.Context, documentID string) (*domain.ImportRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].ID == documentID {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
