package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/printdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/printdrop/internal/core/domain"
)

func seedJournal(t *testing.T, n int) *memory.ImportJournal {
	t.Helper()

	journal := memory.NewImportJournal()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		err := journal.Record(context.Background(), domain.ImportRecord{
			ID:         fmt.Sprintf("doc-%04d", i),
			Outcome:    domain.OutcomeImported,
			StartedAt:  start.Add(time.Duration(i) * time.Minute),
			FinishedAt: start.Add(time.Duration(i)*time.Minute + time.Second),
		})
		require.NoError(t, err)
	}
	return journal
}

func TestHistoryService_Recent_NewestFirst(t *testing.T) {
	svc := NewHistoryService(seedJournal(t, 3))

	records, err := svc.Recent(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "doc-0003", records[0].ID)
	assert.Equal(t, "doc-0001", records[2].ID)
}

func TestHistoryService_Recent_Limit(t *testing.T) {
	svc := NewHistoryService(seedJournal(t, 5))

	records, err := svc.Recent(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "doc-0005", records[0].ID)
	assert.Equal(t, "doc-0004", records[1].ID)
}

func TestHistoryService_Recent_DefaultLimit(t *testing.T) {
	svc := NewHistoryService(seedJournal(t, DefaultHistoryLimit+5))

	records, err := svc.Recent(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, records, DefaultHistoryLimit)
}

func TestHistoryService_Recent_NilJournal(t *testing.T) {
	svc := NewHistoryService(nil)

	records, err := svc.Recent(context.Background(), 5)

	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryService_Find(t *testing.T) {
	svc := NewHistoryService(seedJournal(t, 3))

	rec, err := svc.Find(context.Background(), "doc-0002")

	require.NoError(t, err)
	assert.Equal(t, "doc-0002", rec.ID)
}

func TestHistoryService_Find_NotFound(t *testing.T) {
	svc := NewHistoryService(seedJournal(t, 3))

	_, err := svc.Find(context.Background(), "doc-9999")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_Find_EmptyID(t *testing.T) {
	svc := NewHistoryService(seedJournal(t, 1))

	_, err := svc.Find(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_Find_NilJournal(t *testing.T) {
	svc := NewHistoryService(nil)

	_, err := svc.Find(context.Background(), "doc-0001")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_Find_SkipsFailedImports(t *testing.T) {
	journal := seedJournal(t, 1)
	require.NoError(t, journal.Record(context.Background(), domain.ImportRecord{
		ID:      "doc-broken",
		Outcome: domain.OutcomeFailed,
		Error:   "failed to write metadata file",
	}))
	svc := NewHistoryService(journal)

	_, err := svc.Find(context.Background(), "doc-broken")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
