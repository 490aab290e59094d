package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
	"github.com/custodia-labs/printdrop/internal/core/ports/driving"
	"github.com/custodia-labs/printdrop/internal/logger"
)

// Ensure Receiver implements the interface.
var _ driving.ReceiverService = (*Receiver)(nil)

// ChunkSize is the read size used on inbound streams.
const ChunkSize = 1024

// Receiver handles one inbound print stream at a time.
// It drives a BoundaryDetector over the stream and forwards the payload to
// a DocumentSink, which is committed only if the marker line was seen.
type Receiver struct {
	store    driven.DocumentStore
	journal  driven.ImportJournal
	notifier driven.ImportNotifier

	chunkSize int
	now       func() time.Time
}

// NewReceiver creates a new receiver writing documents into store.
// The journal and notifier are optional - if nil, history recording and
// downstream notification are disabled.
func NewReceiver(
	store driven.DocumentStore,
	journal driven.ImportJournal,
	notifier driven.ImportNotifier,
) *Receiver {
	return &Receiver{
		store:     store,
		journal:   journal,
		notifier:  notifier,
		chunkSize: ChunkSize,
		now:       time.Now,
	}
}

// Receive reads src until end of stream and imports the embedded PDF.
//
// A failing read ends the stream: whatever was received up to that point
// is committed if the marker line had already been seen. Sink failures and
// panics abort the connection instead and nothing is kept.
func (r *Receiver) Receive(
	ctx context.Context,
	src io.Reader,
	remoteAddr string,
) (rec *domain.ImportRecord, err error) {
	rec = &domain.ImportRecord{
		RemoteAddr: remoteAddr,
		StartedAt:  r.now(),
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while receiving: %v", p)
		}
		rec.FinishedAt = r.now()
		if err != nil {
			rec.Outcome = domain.OutcomeFailed
			rec.Error = err.Error()
			logger.Error("PDF receive error: %v", err)
		}
		r.record(ctx, rec)
	}()

	if r.store == nil {
		return rec, errors.New("document store not configured")
	}

	state, err := r.receive(ctx, src, rec)
	if err != nil {
		return rec, err
	}

	switch state {
	case domain.StateCommitted:
		rec.Outcome = domain.OutcomeImported
		logger.Info("PDF imported.")
		r.notify(ctx, rec.ID)
	default:
		rec.Outcome = domain.OutcomeDiscarded
		logger.Info("PDF discarded.")
	}

	return rec, nil
}

// receive runs the connection state machine. The sink opened here is
// released on every return path, including panics, so an uncommitted
// payload never stays on disk.
func (r *Receiver) receive(
	ctx context.Context,
	src io.Reader,
	rec *domain.ImportRecord,
) (domain.ReceiveState, error) {
	var sink driven.DocumentSink
	defer func() {
		if sink == nil {
			return
		}
		if err := sink.Release(); err != nil {
			logger.Warn("releasing %s: %v", sink.ID(), err)
		}
	}()

	detector := NewBoundaryDetector()
	state := domain.StateHeaderSearch
	buf := make([]byte, r.chunkSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if sink == nil {
				opened, err := r.store.Open(ctx)
				if err != nil {
					return state, err
				}
				sink = opened
				rec.ID = sink.ID()
				logger.Info("Receiving PDF into %s%s", sink.ID(), domain.PayloadExt)
			}

			chunk := buf[:n]
			if state == domain.StateHeaderSearch {
				offset, found := detector.Scan(chunk)
				if !found {
					chunk = nil
				} else {
					state = domain.StateBodyCopy
					chunk = chunk[offset:]
					logger.Debug("pdf marker found, payload starts at chunk offset %d", offset)
				}
			}

			if len(chunk) > 0 {
				written, err := sink.Write(chunk)
				rec.Bytes += int64(written)
				if err != nil {
					return state, err
				}
			}
		}

		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				logger.Warn("reading from %s: %v", rec.RemoteAddr, readErr)
			}
			break
		}
		if n == 0 {
			break
		}
	}

	if state != domain.StateBodyCopy {
		return domain.StateDiscarded, nil
	}

	if err := sink.Commit(ctx); err != nil {
		return state, err
	}
	return domain.StateCommitted, nil
}

// record appends rec to the journal. Journal failures never change the outcome.
func (r *Receiver) record(ctx context.Context, rec *domain.ImportRecord) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Record(ctx, *rec); err != nil {
		logger.Warn("recording import: %v", err)
	}
}

func (r *Receiver) notify(ctx context.Context, documentID string) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, documentID); err != nil {
		logger.Warn("notifying downstream about %s: %v", documentID, err)
	}
}
