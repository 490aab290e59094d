package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/printdrop/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/printdrop/internal/core/domain"
)

// mockHistoryService implements driving.HistoryService.
type mockHistoryService struct {
	records   []domain.ImportRecord
	err       error
	lastLimit int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.ImportRecord, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *mockHistoryService) Find(_ context.Context, documentID string) (*domain.ImportRecord, error) {
	for i := range m.records {
		if m.records[i].ID == documentID {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func withHistoryService(t *testing.T, svc *mockHistoryService) {
	t.Helper()
	old := historyService
	historyService = svc
	t.Cleanup(func() { historyService = old })
}

func sampleRecords() []domain.ImportRecord {
	started := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.ImportRecord{
		{
			ID:         "9b2f7c1e-4c55-4f0b-8f43-7f6b5c1d2e3a",
			Outcome:    domain.OutcomeImported,
			Bytes:      48213,
			RemoteAddr: "10.11.99.2:51234",
			StartedAt:  started,
			FinishedAt: started.Add(1500 * time.Millisecond),
		},
		{
			Outcome:    domain.OutcomeDiscarded,
			RemoteAddr: "10.11.99.2:51230",
			StartedAt:  started.Add(-time.Minute),
			FinishedAt: started.Add(-time.Minute),
		},
		{
			ID:         "c0ffee00-0000-4000-8000-000000000000",
			Outcome:    domain.OutcomeFailed,
			RemoteAddr: "10.11.99.2:51200",
			StartedAt:  started.Add(-2 * time.Minute),
			FinishedAt: started.Add(-2 * time.Minute),
			Error:      "failed to write metadata file",
		},
	}
}

func TestHistoryCmd_Use(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
}

func TestHistoryCmd_Short(t *testing.T) {
	assert.Equal(t, "Show recent imports", historyCmd.Short)
}

func TestHistoryCmd_HasLimitFlag(t *testing.T) {
	flag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "20", flag.DefValue)
}

func TestHistoryCmd_HasJSONFlag(t *testing.T) {
	flag := historyCmd.Flags().Lookup("json")
	require.NotNil(t, flag, "json flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestHistoryCmd_PrintsTable(t *testing.T) {
	svc := &mockHistoryService{records: sampleRecords()}
	withHistoryService(t, svc)

	out, err := executeRoot(t, context.Background(), "history")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "imported")
	assert.Contains(t, lines[0], "48213 bytes")
	assert.Contains(t, lines[0], "9b2f7c1e-4c55-4f0b-8f43-7f6b5c1d2e3a")
	assert.Contains(t, lines[1], "discarded")
	assert.Contains(t, lines[1], "  -  ")
	assert.Contains(t, lines[2], "(failed to write metadata file)")
	assert.Equal(t, 20, svc.lastLimit)
}

func TestHistoryCmd_PassesLimit(t *testing.T) {
	svc := &mockHistoryService{}
	withHistoryService(t, svc)

	_, err := executeRoot(t, context.Background(), "history", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, svc.lastLimit)
}

func TestHistoryCmd_Empty(t *testing.T) {
	withHistoryService(t, &mockHistoryService{})

	out, err := executeRoot(t, context.Background(), "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No imports recorded.")
}

func TestHistoryCmd_JSON(t *testing.T) {
	withHistoryService(t, &mockHistoryService{records: sampleRecords()})

	out, err := executeRoot(t, context.Background(), "history", "--json")

	require.NoError(t, err)
	var entries []historyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "imported", entries[0].Outcome)
	assert.Equal(t, int64(1500), entries[0].DurationMS)
	assert.Empty(t, entries[1].ID)
	assert.Equal(t, "failed to write metadata file", entries[2].Error)
}

func TestHistoryCmd_ServiceError(t *testing.T) {
	withHistoryService(t, &mockHistoryService{err: errors.New("database is locked")})

	_, err := executeRoot(t, context.Background(), "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading history")
	assert.Contains(t, err.Error(), "database is locked")
}

func TestHistoryCmd_ReadsJournalFromConfigDir(t *testing.T) {
	configDir := t.TempDir()
	journal, err := sqlite.NewStore(configDir + "/data")
	require.NoError(t, err)
	for _, rec := range sampleRecords() {
		require.NoError(t, journal.Record(context.Background(), rec))
	}
	require.NoError(t, journal.Close())

	out, err := executeRoot(t, context.Background(), "history", "--config", configDir)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "c0ffee00")
	assert.Contains(t, lines[2], "9b2f7c1e")
}

func TestHistoryCmd_JournalDisabled(t *testing.T) {
	configDir := t.TempDir()
	writeConfig(t, configDir, "[journal]\nenabled = false\n")

	out, err := executeRoot(t, context.Background(), "history", "--config", configDir)

	require.NoError(t, err)
	assert.Contains(t, out, "Import journal is disabled.")
}
