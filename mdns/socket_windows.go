//go:build windows

package mdns

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// setReuseOptions sets SO_REUSEADDR. Windows has no SO_REUSEPORT; its
// SO_REUSEADDR already permits multiple processes to bind the same port,
// which is the behavior the engine needs to coexist with other mDNS
// responders on port 5353.
func setReuseOptions(fd uintptr) error {
	return windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
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
