//go:build linux

// File: internal/concurrency/notify_linux.go
// Author: momentics <momentics@gmail.com>
//
// eventfdNotify implements api.Notify over Linux eventfd(2): a
// kernel-provided one-shot edge, async-signal-safe and lock-free to
// signal.

package concurrency

import (
	"encoding/binary"

	"github.com/momentics/evreactor/api"
	"golang.org/x/sys/unix"
)

type eventfdNotify struct {
	fd int
	fn func()
}

// NewNotify constructs the platform Notify: eventfd on Linux.
func NewNotify(fn func()) (api.Notify, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, api.PlatformErrorf("eventfd: %v", err)
	}
	return &eventfdNotify{fd: fd, fn: fn}, nil
}

// Signal posts one increment to the eventfd counter. eventfd's counter
// add is a single syscall-level atomic operation, so repeated Signal
// calls before the reactor wakes coalesce into one non-zero read —
// the coalescing this backend explicitly permits.
func (n *eventfdNotify) Signal() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(n.fd, buf[:])
	if err != nil && err != unix.EAGAIN {
		return api.PlatformErrorf("eventfd write: %v", err)
	}
	return nil
}

// Handle drains the eventfd counter, re-arming the one-shot edge, then
// invokes the bound handler.
func (n *eventfdNotify) Handle() error {
	var buf [8]byte
	_, err := unix.Read(n.fd, buf[:])
	if err != nil && err != unix.EAGAIN {
		return api.PlatformErrorf("eventfd read: %v", err)
	}
	if n.fn != nil {
		n.fn()
	}
	return nil
}

func (n *eventfdNotify) FD() uintptr { return uintptr(n.fd) }

func (n *eventfdNotify) Close() error { return unix.Close(n.fd) }
