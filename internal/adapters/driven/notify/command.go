// Package notify provides downstream notification after a document import.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
	"github.com/custodia-labs/printdrop/internal/logger"
)

// Ensure CommandNotifier implements the interface.
var _ driven.ImportNotifier = (*CommandNotifier)(nil)

// DefaultTimeout bounds how long a notify command may run.
const DefaultTimeout = 30 * time.Second

// CommandNotifier runs an external command after each import, typically
// to restart the document application so it rescans its directory.
//
// The command line is split on whitespace; no shell is involved. The
// document identifier is exported as PRINTDROP_DOCUMENT_ID.
type CommandNotifier struct {
	name    string
	args    []string
	timeout time.Duration
}

// NewCommandNotifier parses commandLine, e.g. "systemctl restart xochitl".
func NewCommandNotifier(commandLine string) (*CommandNotifier, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty notify command: %w", domain.ErrInvalidInput)
	}
	return &CommandNotifier{
		name:    fields[0],
		args:    fields[1:],
		timeout: DefaultTimeout,
	}, nil
}

// Notify runs the command and waits for it to finish.
func (n *CommandNotifier) Notify(ctx context.Context, documentID string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, n.name, n.args...)
	cmd.Env = append(cmd.Environ(), "PRINTDROP_DOCUMENT_ID="+documentID)

	logger.Debug("running notify command %s %s", n.name, strings.Join(n.args, " "))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("running %s: %w: %s", n.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
