package filesystem

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
)

// Ensure sink implements the interface.
var _ driven.DocumentSink = (*sink)(nil)

// sink is one in-flight document. After Commit or Release it is inert.
type sink struct {
	store *Store
	id    string

	file *os.File
	w    *bufio.Writer

	metadataCreated bool
	committed       bool
	done            bool
}

func newSink(store *Store, id string, file *os.File) *sink {
	return &sink{
		store: store,
		id:    id,
		file:  file,
		w:     bufio.NewWriter(file),
	}
}

// ID returns the document identifier.
func (s *sink) ID() string {
	return s.id
}

// Write appends payload bytes.
func (s *sink) Write(p []byte) (int, error) {
	if s.done {
		return 0, domain.ErrSinkReleased
	}
	n, err := s.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return n, nil
}

// Commit makes the payload durable, writes the metadata and closes the
// payload file, in that order. Any failure discards both files.
func (s *sink) Commit(_ context.Context) error {
	if s.done {
		return domain.ErrSinkReleased
	}

	if err := s.w.Flush(); err != nil {
		return s.fail(fmt.Errorf("%w: flushing %s: %w", domain.ErrIO, s.file.Name(), err))
	}
	if err := s.file.Sync(); err != nil {
		return s.fail(fmt.Errorf("%w: syncing %s: %w", domain.ErrIO, s.file.Name(), err))
	}

	md := domain.NewMetadata(time.UnixMilli(s.store.stamp()))
	if err := s.writeMetadata(md); err != nil {
		return s.fail(err)
	}

	if err := s.file.Close(); err != nil {
		s.file = nil
		return s.fail(fmt.Errorf("%w: closing payload: %w", domain.ErrIO, err))
	}

	s.committed = true
	s.done = true
	return nil
}

// Release deletes the payload unless the sink was committed.
func (s *sink) Release() error {
	if s.done {
		return nil
	}
	return s.discard()
}

// writeMetadata writes the sidecar. A partially written file is removed by
// the caller through discard.
func (s *sink) writeMetadata(md domain.Metadata) error {
	data, err := json.MarshalIndent(md, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encoding: %w", domain.ErrMetadataWrite, err)
	}

	path := s.store.metadataPath(s.id)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMetadataWrite, err)
	}
	s.metadataCreated = true

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", domain.ErrMetadataWrite, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", domain.ErrMetadataWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMetadataWrite, err)
	}
	return nil
}

// fail discards both artifacts and returns cause, plus any cleanup error.
func (s *sink) fail(cause error) error {
	if err := s.discard(); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// discard closes the payload and removes every file this sink created.
func (s *sink) discard() error {
	s.done = true

	var errs []error
	if s.file != nil {
		if err := s.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if err := removeIfExists(s.store.payloadPath(s.id)); err != nil {
		errs = append(errs, err)
	}
	if s.metadataCreated {
		if err := removeIfExists(s.store.metadataPath(s.id)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
