// Package cli provides the printdrop command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/printdrop/internal/adapters/driving/tcp"
	"github.com/custodia-labs/printdrop/internal/core/ports/driving"
)

// version is set at build time via -ldflags "-X ...cli.version=1.2.3".
var version = "dev"

// DefaultDocumentDir is the xochitl content directory on the tablet.
const DefaultDocumentDir = "/home/root/.local/share/remarkable/xochitl/"

var (
	portFlag      int
	dirFlag       string
	configDirFlag string
	verboseFlag   bool
)

// Services injected by tests. When nil, commands build their own.
var (
	receiverService driving.ReceiverService
	historyService  driving.HistoryService
)

var rootCmd = &cobra.Command{
	Use:   "printdrop",
	Short: "Receive raw print jobs and import their PDFs",
	Long: `printdrop listens on a raw printing port (9100 by default) and imports
every PDF it receives into the document directory, next to a metadata file the
reader picks up on its next rescan.

Anything sent before the first line starting with %PDF- is ignored. Jobs
without such a line are discarded.

Running printdrop without a subcommand is the same as "printdrop serve".`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&portFlag, "port", "p", tcp.DefaultPort, "TCP port to listen on")
	flags.StringVarP(&dirFlag, "dir", "d", DefaultDocumentDir, "directory to write documents into")
	flags.StringVar(&configDirFlag, "config", "", "configuration directory (default ~/.printdrop)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
