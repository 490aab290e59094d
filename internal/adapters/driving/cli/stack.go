package cli

import (
	"fmt"

	"github.com/custodia-labs/printdrop/internal/adapters/driven/identifier"
	"github.com/custodia-labs/printdrop/internal/adapters/driven/notify"
	"github.com/custodia-labs/printdrop/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/printdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/printdrop/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
	"github.com/custodia-labs/printdrop/internal/core/services"
	"github.com/custodia-labs/printdrop/internal/logger"
)

// stack holds the wired services for one command invocation.
type stack struct {
	receiver *services.Receiver
	journal  driven.ImportJournal
	notifier *notify.Switch
}

// openJournal opens the SQLite journal. It returns nil when the journal is
// disabled.
func openJournal(s settings) (driven.ImportJournal, error) {
	if !s.JournalEnabled {
		return nil, nil
	}
	store, err := sqlite.NewStore(s.JournalDir)
	if err != nil {
		return nil, fmt.Errorf("opening import journal: %w", err)
	}
	logger.Debug("import journal at %s", store.Path())
	return store, nil
}

// buildStack wires the receiver from settings.
func buildStack(s settings) (*stack, error) {
	docs, err := filesystem.NewStore(s.DocumentDir, identifier.NewUUIDGenerator())
	if err != nil {
		return nil, fmt.Errorf("preparing document directory: %w", err)
	}
	logger.Debug("document directory %s", docs.Dir())

	notifier := notify.NewSwitch(nil)
	if s.NotifyCommand != "" {
		cmdNotifier, err := notify.NewCommandNotifier(s.NotifyCommand)
		if err != nil {
			return nil, fmt.Errorf("configuring %s: %w", keyNotifyCommand, err)
		}
		notifier.Set(cmdNotifier)
	}

	// Receiving keeps working without a database.
	journal, err := openJournal(s)
	if err != nil {
		logger.Warn("%v; keeping history in memory", err)
		journal = memory.NewImportJournal()
	}

	return &stack{
		receiver: services.NewReceiver(docs, journal, notifier),
		journal:  journal,
		notifier: notifier,
	}, nil
}

// reload applies the settings that can change while serving. The port and
// directories only take effect on restart. A mistyped value leaves the
// running configuration untouched.
func (st *stack) reload(cfg driven.ConfigStore, verbose bool) {
	fileVerbose, _, err := configBool(cfg, keyLogVerbose)
	if err != nil {
		logger.Warn("ignoring config change: %v", err)
		return
	}
	commandLine, _, err := configString(cfg, keyNotifyCommand)
	if err != nil {
		logger.Warn("ignoring config change: %v", err)
		return
	}

	var notifier driven.ImportNotifier
	if commandLine != "" {
		n, err := notify.NewCommandNotifier(commandLine)
		if err != nil {
			logger.Warn("ignoring config change: %s: %v", keyNotifyCommand, err)
			return
		}
		notifier = n
	}
	st.notifier.Set(notifier)

	wasVerbose := logger.IsVerbose()
	logger.SetVerbose(verbose || fileVerbose)
	if now := logger.IsVerbose(); now != wasVerbose {
		logger.Info("Verbose logging %s.", onOff(now))
	}
	logger.Info("Configuration reloaded.")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Close releases the journal.
func (st *stack) Close() error {
	if st == nil || st.journal == nil {
		return nil
	}
	if err := st.journal.Close(); err != nil {
		return fmt.Errorf("closing import journal: %w", err)
	}
	return nil
}
