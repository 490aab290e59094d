package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/printdrop/internal/adapters/driving/mcp"
	"github.com/custodia-labs/printdrop/internal/core/services"
	"github.com/custodia-labs/printdrop/internal/logger"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the import journal to
AI assistants. The server offers a recent_imports tool and the
printdrop://imports resources.

By default the server communicates over stdio using JSON-RPC. Use --mcp-port
to serve over HTTP instead.

Examples:
  # Stdio mode
  printdrop mcp

  # HTTP mode
  printdrop mcp --mcp-port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVar(&mcpPort, "mcp-port", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	svc := historyService
	if svc == nil {
		s, err := loadSettings(cmd.Flags())
		if err != nil {
			return err
		}
		journal, err := openJournal(s)
		if err != nil {
			return err
		}
		if journal != nil {
			defer func() {
				if err := journal.Close(); err != nil {
					logger.Warn("closing import journal: %v", err)
				}
			}()
		}
		svc = services.NewHistoryService(journal)
	}

	server, err := mcp.NewServer(&mcp.Ports{History: svc})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
