package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/printdrop/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// instructions tells clients what the server can answer.
const instructions = `printdrop receives raw print jobs and imports the PDFs they carry.
Use recent_imports to see what arrived and whether it was imported, discarded
or failed. Read printdrop://imports/{documentId} for one imported document.`

// shutdownTimeout bounds how long open MCP sessions may delay exit.
const shutdownTimeout = 5 * time.Second

// Server exposes the import journal over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a server reading history from ports.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingHistoryService
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "printdrop",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves one client over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP binds addr and serves streamable HTTP until ctx is done.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.ServeHTTP(ctx, ln)
}

// ServeHTTP serves streamable HTTP on ln until ctx is done. It closes ln.
// Cancellation gives open sessions shutdownTimeout to finish.
func (s *Server) ServeHTTP(ctx context.Context, ln net.Listener) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp shutdown: %v", err)
		}
	})
	defer stop()

	logger.Debug("mcp listening on %s", ln.Addr())
	if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
