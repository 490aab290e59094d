package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/printdrop/internal/core/ports/driving"
	"github.com/custodia-labs/printdrop/internal/logger"
)

// DefaultPort is the raw printing port.
const DefaultPort = 9100

// acceptBackoff spaces out retries after failed accepts.
const acceptBackoff = 100 * time.Millisecond

// Config holds listener settings.
type Config struct {
	// Host to bind. Empty binds every interface.
	Host string
	// Port to bind. Zero picks a free port.
	Port int
}

// Address returns the host:port string to bind.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// Listener accepts print connections sequentially.
type Listener struct {
	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// Listen binds the configured address with SO_REUSEADDR set and a short
// accept backlog.
func Listen(ctx context.Context, cfg Config) (*Listener, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	ln, err := listen(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
	}

	return &Listener{listener: ln}, nil
}

// resolveHost returns the IP to bind, or nil for every interface.
func resolveHost(ctx context.Context, host string) (net.IP, error) {
	if host == "" {
		return nil, nil
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip, nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses for %s", host)
	}
	return addrs[0].IP, nil
}

// Addr returns the bound address. Useful when the port was zero.
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Port returns the bound port.
func (l *Listener) Port() int {
	if tcpAddr, ok := l.listener.Addr().(*net.TCPAddr); ok {
		return tcpAddr.Port
	}
	return 0
}

// Close stops accepting connections. Safe to call more than once.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.listener.Close()
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed. Each connection is handled to completion before the next accept.
// Serve returns nil on an orderly stop.
func (l *Listener) Serve(ctx context.Context, receiver driving.ReceiverService) error {
	if receiver == nil {
		return errors.New("receiver not configured")
	}

	stop := context.AfterFunc(ctx, func() {
		_ = l.Close()
	})
	defer stop()

	limiter := rate.NewLimiter(rate.Every(acceptBackoff), 1)

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Warn("accept failed: %v", err)
			if waitErr := limiter.Wait(ctx); waitErr != nil {
				return nil
			}
			continue
		}

		// The in-flight connection finishes even if a shutdown arrives.
		l.handle(context.WithoutCancel(ctx), conn, receiver)
	}
}

// handle runs the receiver on one connection and always closes it.
func (l *Listener) handle(ctx context.Context, conn net.Conn, receiver driving.ReceiverService) {
	remote := conn.RemoteAddr().String()
	defer func() {
		if p := recover(); p != nil {
			logger.Error("connection from %s aborted: %v", remote, p)
		}
		if err := conn.Close(); err != nil {
			logger.Debug("closing connection from %s: %v", remote, err)
		}
	}()

	logger.Debug("connection from %s", remote)
	rec, err := receiver.Receive(ctx, conn, remote)
	if err != nil {
		logger.Debug("connection from %s failed: %v", remote, err)
		return
	}
	logger.Debug("connection from %s finished: %s, %d bytes in %s",
		remote, rec.Outcome, rec.Bytes, rec.Duration().Round(time.Millisecond))
}
