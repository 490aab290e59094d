package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/printdrop/internal/core/domain"
)

// ReceiverService turns one inbound print stream into at most one document.
type ReceiverService interface {
	// Receive reads src until end of stream and commits or discards the
	// embedded document. The returned record is never nil. A non-nil error
	// means a sink failure aborted the connection; nothing was kept.
	Receive(ctx context.Context, src io.Reader, remoteAddr string) (*domain.ImportRecord, error)
}
