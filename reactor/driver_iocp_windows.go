//go:build windows

// File: reactor/driver_iocp_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows I/O Completion Port driver: AIO|IOCP capabilities. A handle is
// registered once for its lifetime (IOCP capability), and Process
// delivers completions rather than readiness — there is no
// add/del/enable/disable cycle per direction, matching
// ngx_iocp_module's single-registration model.

package reactor

import (
	"context"
	"sync"
	"unsafe"

	"github.com/momentics/evreactor/api"
	"golang.org/x/sys/windows"
)

type iocpDriver struct {
	mu   sync.Mutex
	port windows.Handle
	caps api.Capability
	byKey map[uintptr]*api.Event
}

// NewIOCPDriver constructs an IOCP-backed driver.
func NewIOCPDriver() api.Driver {
	return &iocpDriver{caps: api.AIO | api.IOCP, byKey: make(map[uintptr]*api.Event)}
}

func (d *iocpDriver) Capabilities() api.Capability { return d.caps }

func (d *iocpDriver) Init() error {
	port, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return api.PlatformErrorf("CreateIoCompletionPort: %v", err)
	}
	d.port = port
	return nil
}

func (d *iocpDriver) Done() error { return windows.CloseHandle(d.port) }

// Add registers ev's handle with the completion port once; subsequent
// Add calls for the same handle are no-ops, matching IOCP semantics.
func (d *iocpDriver) Add(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	if ev.Active {
		return nil
	}
	fd, ok := fdOf(ev)
	if !ok {
		return api.BackendErrorf("event has no backing handle")
	}
	key := uintptr(unsafe.Pointer(ev))
	if _, err := windows.CreateIoCompletionPort(windows.Handle(fd), d.port, key, 0); err != nil {
		return api.BackendErrorf("CreateIoCompletionPort register: %v", err)
	}
	d.mu.Lock()
	d.byKey[key] = ev
	d.mu.Unlock()
	ev.Active = true
	return nil
}

// Del is a no-op: IOCP offers no way to unregister a handle short of
// closing it (an IOCP capability note).
func (d *iocpDriver) Del(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	ev.Active = false
	return nil
}

func (d *iocpDriver) Enable(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	return d.Add(ev, dir, opFlags)
}

func (d *iocpDriver) Disable(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	return d.Del(ev, dir, opFlags)
}

func (d *iocpDriver) AddConn(read, write *api.Event, opFlags api.OpFlags) error {
	return d.Add(read, api.Read, opFlags)
}

func (d *iocpDriver) DelConn(read, write *api.Event, opFlags api.OpFlags) error {
	return nil
}

func (d *iocpDriver) Process(ctx context.Context, timeoutMs int) error {
	var bytes uint32
	var key uintptr
	var overlapped *windows.Overlapped

	timeout := uint32(windows.INFINITE)
	if timeoutMs >= 0 {
		timeout = uint32(timeoutMs)
	}

	err := windows.GetQueuedCompletionStatus(d.port, &bytes, &key, &overlapped, timeout)
	if err != nil {
		if err == windows.WAIT_TIMEOUT {
			return nil
		}
		return api.BackendErrorf("GetQueuedCompletionStatus: %v", err)
	}

	d.mu.Lock()
	ev := d.byKey[key]
	d.mu.Unlock()
	if ev == nil {
		return nil
	}
	ev.Complete = true
	ev.Available = int(bytes)
	if ev.Handler != nil {
		ev.Handler(ev)
	}
	return nil
}
