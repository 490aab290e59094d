package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/printdrop/internal/core/domain"
)

// Outcome colours.
var (
	colourImported  = lipgloss.Color("#A6E3A1") // Green
	colourDiscarded = lipgloss.Color("#F9E2AF") // Yellow
	colourFailed    = lipgloss.Color("#F38BA8") // Red
	colourMuted     = lipgloss.Color("#6C7086") // Medium gray
)

// outputStyles colours history output when it goes to a terminal.
type outputStyles struct {
	enabled   bool
	imported  lipgloss.Style
	discarded lipgloss.Style
	failed    lipgloss.Style
	muted     lipgloss.Style
}

func newOutputStyles(w io.Writer) outputStyles {
	f, ok := w.(*os.File)
	return outputStyles{
		enabled:   ok && term.IsTerminal(int(f.Fd())),
		imported:  lipgloss.NewStyle().Foreground(colourImported).Bold(true),
		discarded: lipgloss.NewStyle().Foreground(colourDiscarded),
		failed:    lipgloss.NewStyle().Foreground(colourFailed).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(colourMuted),
	}
}

// outcome renders o padded to a fixed width.
func (s outputStyles) outcome(o domain.ImportOutcome) string {
	label := fmt.Sprintf("%-9s", o)
	if !s.enabled {
		return label
	}
	switch o {
	case domain.OutcomeImported:
		return s.imported.Render(label)
	case domain.OutcomeDiscarded:
		return s.discarded.Render(label)
	case domain.OutcomeFailed:
		return s.failed.Render(label)
	default:
		return label
	}
}

// dim renders secondary text such as timestamps and peer addresses.
func (s outputStyles) dim(text string) string {
	if !s.enabled {
		return text
	}
	return s.muted.Render(text)
}
