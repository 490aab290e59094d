//go:build !unix

package tcp

import (
	"context"
	"net"
)

// listen falls back to the runtime's listener, with its default backlog.
func listen(ctx context.Context, cfg Config) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", cfg.Address())
}
