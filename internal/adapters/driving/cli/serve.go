package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/printdrop/internal/adapters/driving/tcp"
	"github.com/custodia-labs/printdrop/internal/core/ports/driving"
	"github.com/custodia-labs/printdrop/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for print jobs",
	Long: `Listen for raw print jobs and import the PDFs they carry.

Connections are handled one at a time. Each received PDF is written as
<uuid>.pdf with a matching <uuid>.metadata file. The server runs until it
receives SIGINT or SIGTERM; a job in progress is finished first.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd.Flags())
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	receiver := receiverService
	if receiver == nil {
		st, err := buildStack(s)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.Warn("%v", err)
			}
		}()
		watchConfig(ctx, s, st)
		receiver = st.receiver
	}

	return serve(ctx, s, receiver)
}

// watchConfig reloads config.toml in the background until ctx is done.
func watchConfig(ctx context.Context, s settings, st *stack) {
	if s.source == nil {
		return
	}
	verbose := verboseFlag
	go func() {
		err := s.source.Watch(ctx, func() {
			st.reload(s.source, verbose)
		})
		if err != nil {
			logger.Warn("config reload disabled: %v", err)
		}
	}()
}

// serve binds the port and blocks until ctx is done.
func serve(ctx context.Context, s settings, receiver driving.ReceiverService) error {
	if receiver == nil {
		return errors.New("receiver service not configured")
	}

	ln, err := tcp.Listen(ctx, tcp.Config{Host: s.Host, Port: s.Port})
	if err != nil {
		return err
	}
	defer ln.Close()

	logger.Info("Listening on port %d, writing documents to %s", ln.Port(), s.DocumentDir)
	logger.Debug("bound %s", ln.Addr())
	if err := ln.Serve(ctx, receiver); err != nil {
		return err
	}
	logger.Info("Shutting down.")
	return nil
}
