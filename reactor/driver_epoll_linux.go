//go:build linux

// File: reactor/driver_epoll_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7) driver, generalized to the full nine-operation
// api.Driver contract plus
// capability-driven Add/Del (epoll can run level-triggered, the nginx
// default, or edge-triggered with EPOLLET — this driver is constructed
// for one mode at a time via NewEpollDriver).

package reactor

import (
	"context"
	"sync"

	"github.com/momentics/evreactor/api"
	"golang.org/x/sys/unix"
)

// epollDriver implements api.Driver over Linux epoll.
type epollDriver struct {
	mu      sync.Mutex
	epfd    int
	caps    api.Capability
	evSlots map[int32][2]*api.Event // fd -> [read, write]
}

// NewEpollDriver constructs an epoll-backed driver. edgeTriggered
// selects EPOLLET (CLEAR|GREEDY|INSTANCE) vs. level-triggered (LEVEL)
// semantics, matching nginx's epoll vs. edge-triggered-patch split.
func NewEpollDriver(edgeTriggered bool) api.Driver {
	caps := api.Level
	if edgeTriggered {
		caps = api.Clear | api.Greedy | api.Instance
	}
	return &epollDriver{caps: caps, evSlots: make(map[int32][2]*api.Event)}
}

func (d *epollDriver) Capabilities() api.Capability { return d.caps }

func (d *epollDriver) Init() error {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return api.PlatformErrorf("epoll_create1: %v", err)
	}
	d.epfd = epfd
	return nil
}

func (d *epollDriver) Done() error {
	return unix.Close(d.epfd)
}

func (d *epollDriver) epollFlags() uint32 {
	var f uint32
	if d.caps.Has(api.Clear) {
		f |= unix.EPOLLET
	}
	return f
}

func (d *epollDriver) Add(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	if ev.Active {
		return api.BackendErrorf("add called on already-active event")
	}
	fd, ok := fdOf(ev)
	if !ok {
		return api.BackendErrorf("event has no backing descriptor")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	slots := d.evSlots[int32(fd)]
	op := int(unix.EPOLL_CTL_ADD)
	if slots[0] != nil || slots[1] != nil {
		op = unix.EPOLL_CTL_MOD
	}
	slots[dir] = ev
	d.evSlots[int32(fd)] = slots

	mask := d.epollFlags()
	if slots[api.Read] != nil {
		mask |= unix.EPOLLIN
	}
	if slots[api.Write] != nil {
		mask |= unix.EPOLLOUT
	}

	event := unix.EpollEvent{Events: mask, Fd: int32(fd)}
	if err := unix.EpollCtl(d.epfd, op, int(fd), &event); err != nil {
		return api.BackendErrorf("epoll_ctl add/mod fd=%d: %v", fd, err)
	}
	ev.Active = true
	if d.caps.Has(api.Instance) {
		ev.Instance = !ev.Instance
	}
	return nil
}

func (d *epollDriver) Del(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	if !ev.Active {
		return api.BackendErrorf("del called on inactive event")
	}
	fd, ok := fdOf(ev)
	if !ok {
		return api.BackendErrorf("event has no backing descriptor")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	slots := d.evSlots[int32(fd)]
	slots[dir] = nil
	d.evSlots[int32(fd)] = slots

	if slots[api.Read] == nil && slots[api.Write] == nil {
		delete(d.evSlots, int32(fd))
		if err := unix.EpollCtl(d.epfd, unix.EPOLL_CTL_DEL, int(fd), nil); err != nil {
			return api.BackendErrorf("epoll_ctl del fd=%d: %v", fd, err)
		}
	} else {
		mask := d.epollFlags()
		if slots[api.Read] != nil {
			mask |= unix.EPOLLIN
		}
		if slots[api.Write] != nil {
			mask |= unix.EPOLLOUT
		}
		event := unix.EpollEvent{Events: mask, Fd: int32(fd)}
		if err := unix.EpollCtl(d.epfd, unix.EPOLL_CTL_MOD, int(fd), &event); err != nil {
			return api.BackendErrorf("epoll_ctl mod fd=%d: %v", fd, err)
		}
	}
	ev.Active = false
	return nil
}

func (d *epollDriver) Enable(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	return d.Add(ev, dir, opFlags)
}

func (d *epollDriver) Disable(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	return d.Del(ev, dir, opFlags|api.DisableEvent)
}

func (d *epollDriver) AddConn(read, write *api.Event, opFlags api.OpFlags) error {
	if err := d.Add(read, api.Read, opFlags); err != nil {
		return err
	}
	return d.Add(write, api.Write, opFlags)
}

func (d *epollDriver) DelConn(read, write *api.Event, opFlags api.OpFlags) error {
	if read.Active {
		if err := d.Del(read, api.Read, opFlags); err != nil {
			return err
		}
	}
	if write.Active {
		if err := d.Del(write, api.Write, opFlags); err != nil {
			return err
		}
	}
	return nil
}

func (d *epollDriver) Process(ctx context.Context, timeoutMs int) error {
	const maxEvents = 512
	var raw [maxEvents]unix.EpollEvent

	n, err := unix.EpollWait(d.epfd, raw[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return api.BackendErrorf("epoll_wait: %v", err)
	}

	d.mu.Lock()
	fired := make([]*api.Event, 0, n*2)
	errFlags := make([]bool, 0, n*2)
	for i := 0; i < n; i++ {
		slots, ok := d.evSlots[raw[i].Fd]
		if !ok {
			continue
		}
		mask := raw[i].Events
		errored := mask&(unix.EPOLLERR|unix.EPOLLHUP) != 0
		if (mask&unix.EPOLLIN != 0 || errored) && slots[api.Read] != nil {
			fired = append(fired, markObserved(slots[api.Read], d.caps))
			errFlags = append(errFlags, errored)
		}
		if (mask&unix.EPOLLOUT != 0 || errored) && slots[api.Write] != nil {
			fired = append(fired, markObserved(slots[api.Write], d.caps))
			errFlags = append(errFlags, errored)
		}
	}
	d.mu.Unlock()

	for i, ev := range fired {
		if !dispatchPrep(ev, d.caps, errFlags[i]) {
			continue // stale instance, dropped per invariant 3
		}
		if ev.Handler != nil {
			ev.Handler(ev)
		}
	}
	return nil
}

// markObserved snapshots an event's current Instance into
// ReturnedInstance the moment its readiness is decoded from the
// kernel for a registration still found live in evSlots (under d.mu,
// so no concurrent Add/Del can be running). This is the generation the
// notification belongs to.
func markObserved(ev *api.Event, caps api.Capability) *api.Event {
	if caps.Has(api.Instance) {
		ev.ReturnedInstance = ev.Instance
	}
	return ev
}

// dispatchPrep applies the instance-staleness check and sets Ready (and
// Error for EPOLLERR/EPOLLHUP) right before an event is handed to its
// Handler; it leaves Active unchanged, since this driver never registers
// with EPOLLONESHOT. Runs after the lock guarding evSlots has been released,
// so an earlier Handler in the same batch may have already closed and
// re-registered this same *api.Event on a reused descriptor, flipping
// Instance again — that shows up here as a mismatch against the
// ReturnedInstance snapshot taken by markObserved, and the event is
// dropped as stale. Returns false when the event must be silently
// dropped.
func dispatchPrep(ev *api.Event, caps api.Capability, errored bool) bool {
	if caps.Has(api.Instance) && ev.Instance != ev.ReturnedInstance {
		return false
	}
	ev.Ready = true
	if errored {
		ev.Error = true
	}
	return true
}

// fdOf extracts the raw descriptor an Event refers to. Events in this
// module carry their fd via Data, by convention of the caller (a
// connection type implementing fdHolder); reactor itself never opens
// sockets (opening sockets is out of scope for this package).
func fdOf(ev *api.Event) (uintptr, bool) {
	h, ok := ev.Data.(fdHolder)
	if !ok {
		return 0, false
	}
	return h.FD(), true
}

// fdHolder is implemented by whatever connection/context type the
// caller attaches to Event.Data.
type fdHolder interface {
	FD() uintptr
}
