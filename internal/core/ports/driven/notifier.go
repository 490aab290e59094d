package driven

import "context"

// ImportNotifier tells a downstream application that a document arrived.
type ImportNotifier interface {
	// Notify is called after a document was committed.
	Notify(ctx context.Context, documentID string) error
}
