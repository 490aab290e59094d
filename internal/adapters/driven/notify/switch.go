package notify

import (
	"context"
	"sync"

	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
)

// Ensure Switch implements the interface.
var _ driven.ImportNotifier = (*Switch)(nil)

// Switch forwards to a notifier that may be replaced while serving, so a
// config reload can change the notify command.
type Switch struct {
	mu      sync.RWMutex
	current driven.ImportNotifier
}

// NewSwitch creates a switch forwarding to n. A nil n disables notification.
func NewSwitch(n driven.ImportNotifier) *Switch {
	return &Switch{current: n}
}

// Set replaces the notifier. A nil n disables notification.
func (s *Switch) Set(n driven.ImportNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = n
}

// Notify forwards to the current notifier.
func (s *Switch) Notify(ctx context.Context, documentID string) error {
	s.mu.RLock()
	n := s.current
	s.mu.RUnlock()

	if n == nil {
		return nil
	}
	return n.Notify(ctx, documentID)
}
