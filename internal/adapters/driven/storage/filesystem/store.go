package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// DefaultDir is where the reMarkable document application reads documents.
const DefaultDir = "/home/root/.local/share/remarkable/xochitl/"

// Store creates document sinks inside one directory.
type Store struct {
	dir string
	ids driven.IDGenerator
	now func() time.Time

	mu           sync.Mutex
	lastModified int64
}

// NewStore creates a store writing into dir, creating it if needed.
// If dir is empty, DefaultDir is used.
func NewStore(dir string, ids driven.IDGenerator) (*Store, error) {
	if ids == nil {
		return nil, fmt.Errorf("identifier source: %w", domain.ErrInvalidInput)
	}
	if dir == "" {
		dir = DefaultDir
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating document directory: %w", err)
	}

	return &Store{
		dir: filepath.Clean(dir),
		ids: ids,
		now: time.Now,
	}, nil
}

// Dir returns the target directory.
func (s *Store) Dir() string {
	return s.dir
}

// Open creates <dir>/<id>.pdf for a fresh identifier.
func (s *Store) Open(_ context.Context) (driven.DocumentSink, error) {
	id := s.ids.NewID()
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%w: invalid identifier %q", domain.ErrFileOpen, id)
	}

	file, err := os.OpenFile(s.payloadPath(id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFileOpen, err)
	}

	return newSink(s, id, file), nil
}

// stamp returns the commit timestamp in milliseconds. It never goes
// backwards across commits of the same store, even if the clock does.
func (s *Store) stamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms < s.lastModified {
		ms = s.lastModified
	}
	s.lastModified = ms
	return ms
}

func (s *Store) payloadPath(id string) string {
	return filepath.Join(s.dir, id+domain.PayloadExt)
}

func (s *Store) metadataPath(id string) string {
	return filepath.Join(s.dir, id+domain.MetadataExt)
}
