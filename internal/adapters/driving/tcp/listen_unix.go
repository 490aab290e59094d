//go:build unix

package tcp

import (
	"context"
	"errors"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// listenBacklog bounds the queue of connections waiting to be accepted.
// Jobs are handled one at a time, so printers beyond this retry later.
const listenBacklog = 10

// listen creates the socket by hand because net.Listen always asks the
// kernel for somaxconn.
func listen(ctx context.Context, cfg Config) (net.Listener, error) {
	ip, err := resolveHost(ctx, cfg.Host)
	if err != nil {
		return nil, err
	}

	if ip == nil {
		// Every interface: dual stack, or IPv4 alone when the kernel has no IPv6.
		ln, err := listenSocket(unix.AF_INET6, &unix.SockaddrInet6{Port: cfg.Port}, true)
		if errors.Is(err, unix.EAFNOSUPPORT) {
			return listenSocket(unix.AF_INET, &unix.SockaddrInet4{Port: cfg.Port}, false)
		}
		return ln, err
	}

	if ip4 := ip.To4(); ip4 != nil {
		sa := &unix.SockaddrInet4{Port: cfg.Port}
		copy(sa.Addr[:], ip4)
		return listenSocket(unix.AF_INET, sa, false)
	}
	sa := &unix.SockaddrInet6{Port: cfg.Port}
	copy(sa.Addr[:], ip.To16())
	return listenSocket(unix.AF_INET6, sa, false)
}

// listenSocket binds sa with SO_REUSEADDR, so a restarted daemon can
// rebind while old connections sit in TIME_WAIT, and starts listening.
func listenSocket(family int, sa unix.Sockaddr, dualStack bool) (net.Listener, error) {
	fd, err := unix.Socket(family, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	unix.CloseOnExec(fd)

	// net.FileListener duplicates the descriptor, so this one is always closed.
	f := os.NewFile(uintptr(fd), "tcp-listener")
	defer f.Close()

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return nil, os.NewSyscallError("setsockopt", err)
	}
	if dualStack {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0); err != nil {
			return nil, os.NewSyscallError("setsockopt", err)
		}
	}
	if err := unix.Bind(fd, sa); err != nil {
		return nil, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		return nil, os.NewSyscallError("listen", err)
	}

	return net.FileListener(f)
}
