package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/printdrop/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ImportJournal = (*Store)(nil)

// Store is a SQLite-based import journal.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.printdrop/data/imports.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".printdrop", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "imports.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_imports.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Record appends an import record.
func (s *Store) Record(ctx context.Context, rec domain.ImportRecord) error {
	if !rec.Outcome.IsValid() {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (document_id, outcome, bytes, remote_addr, started_at, finished_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, nullString(rec.ID),
		string(rec.Outcome),
		rec.Bytes,
		nullString(rec.RemoteAddr),
		formatTime(rec.StartedAt),
		formatTime(rec.FinishedAt),
		nullString(rec.Error))
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first.
// A limit of zero or less returns all records.
func (s *Store) List(ctx context.Context, limit int) ([]domain.ImportRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, outcome, bytes, remote_addr, started_at, finished_at, error
		FROM imports
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var records []domain.ImportRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanImportRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating imports: %w", err)
	}

	return records, nil
}

// Find returns the imported record for documentID.
func (s *Store) Find(ctx context.Context, documentID string) (*domain.ImportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, outcome, bytes, remote_addr, started_at, finished_at, error
		FROM imports
		WHERE document_id = ? AND outcome = ?
		ORDER BY id DESC
		LIMIT 1
	`, documentID, string(domain.OutcomeImported))
	if err != nil {
		return nil, fmt.Errorf("querying import %s: %w", documentID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating imports: %w", err)
		}
		return nil, fmt.Errorf("import %s: %w", documentID, domain.ErrNotFound)
	}
	return scanImportRecord(rows)
}

// ==================== Helper Functions ====================

func scanImportRecord(rows *sql.Rows) (*domain.ImportRecord, error) {
	var rec domain.ImportRecord
	var documentID, remoteAddr, lastError sql.NullString
	var outcome, startedAt, finishedAt string

	if err := rows.Scan(&documentID, &outcome, &rec.Bytes, &remoteAddr,
		&startedAt, &finishedAt, &lastError); err != nil {
		return nil, fmt.Errorf("scanning import: %w", err)
	}

	rec.ID = documentID.String
	rec.Outcome = domain.ImportOutcome(outcome)
	rec.RemoteAddr = remoteAddr.String
	rec.StartedAt = parseTime(startedAt)
	rec.FinishedAt = parseTime(finishedAt)
	rec.Error = lastError.String

	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{} // Return zero time on parse error
	}
	return t
}

// nullString converts an empty string to SQL NULL.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
