//go:build unix

package mdns

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// setReuseOptions sets SO_REUSEADDR and, where the kernel supports it,
// SO_REUSEPORT, so the engine's sockets can coexist with other mDNS
// responders (Avahi, mDNSResponder, systemd-resolved) already bound to
// port 5353.
func setReuseOptions(fd uintptr) error {
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return err
	}

	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		if err != unix.ENOPROTOOPT {
			return err
		}
	}

	return nil
}

// reuseControl is passed to net.ListenConfig.Control so reuse options are
// applied to the socket before it is bound.
func reuseControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = setReuseOptions(fd)
	}); err != nil {
		return err
	}
	return sockErr
}
