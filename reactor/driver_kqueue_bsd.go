//go:build darwin || freebsd || netbsd || openbsd

// File: reactor/driver_kqueue_bsd.go
// Author: momentics <momentics@gmail.com>
//
// BSD/Darwin kqueue(2) driver: CLEAR|KQUEUE|LOWAT|INSTANCE capabilities,
// matching nginx's kqueue backend. kqueue reports eof/errno/available
// per event (the KQUEUE capability), which this driver surfaces on
// api.Event.Available and the EOF/Error flags.

package reactor

import (
	"context"
	"sync"

	"github.com/momentics/evreactor/api"
	"golang.org/x/sys/unix"
)

type kqueueDriver struct {
	mu   sync.Mutex
	kq   int
	caps api.Capability
	byFd map[int32][2]*api.Event
}

// NewKqueueDriver constructs a kqueue-backed driver.
func NewKqueueDriver() api.Driver {
	return &kqueueDriver{
		caps: api.Clear | api.Kqueue | api.Lowat | api.Instance,
		byFd: make(map[int32][2]*api.Event),
	}
}

func (d *kqueueDriver) Capabilities() api.Capability { return d.caps }

func (d *kqueueDriver) Init() error {
	kq, err := unix.Kqueue()
	if err != nil {
		return api.PlatformErrorf("kqueue: %v", err)
	}
	d.kq = kq
	return nil
}

func (d *kqueueDriver) Done() error { return unix.Close(d.kq) }

func filterFor(dir api.Direction) int16 {
	if dir == api.Write {
		return unix.EVFILT_WRITE
	}
	return unix.EVFILT_READ
}

func (d *kqueueDriver) Add(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	if ev.Active {
		return api.BackendErrorf("add called on already-active event")
	}
	fd, ok := fdOf(ev)
	if !ok {
		return api.BackendErrorf("event has no backing descriptor")
	}

	flags := uint16(unix.EV_ADD)
	if opFlags&api.ClearMode != 0 {
		flags |= unix.EV_CLEAR
	}
	if opFlags&api.OneshotMode != 0 {
		flags |= unix.EV_ONESHOT
	}

	kev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: filterFor(dir),
		Flags:  flags,
	}
	if _, err := unix.Kevent(d.kq, []unix.Kevent_t{kev}, nil, nil); err != nil {
		return api.BackendErrorf("kevent add fd=%d: %v", fd, err)
	}

	d.mu.Lock()
	slots := d.byFd[int32(fd)]
	slots[dir] = ev
	d.byFd[int32(fd)] = slots
	d.mu.Unlock()

	ev.Active = true
	ev.Instance = !ev.Instance
	return nil
}

func (d *kqueueDriver) Del(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	if !ev.Active {
		return api.BackendErrorf("del called on inactive event")
	}
	fd, ok := fdOf(ev)
	if !ok {
		return api.BackendErrorf("event has no backing descriptor")
	}

	// kqueue auto-removes filters for a closed file (the
	// CLOSE_EVENT note); skip the syscall in that case, only clear
	// bookkeeping.
	if opFlags&api.CloseEvent == 0 {
		kev := unix.Kevent_t{Ident: uint64(fd), Filter: filterFor(dir), Flags: unix.EV_DELETE}
		if _, err := unix.Kevent(d.kq, []unix.Kevent_t{kev}, nil, nil); err != nil {
			return api.BackendErrorf("kevent del fd=%d: %v", fd, err)
		}
	}

	d.mu.Lock()
	slots := d.byFd[int32(fd)]
	slots[dir] = nil
	if slots[api.Read] == nil && slots[api.Write] == nil {
		delete(d.byFd, int32(fd))
	} else {
		d.byFd[int32(fd)] = slots
	}
	d.mu.Unlock()

	ev.Active = false
	return nil
}

func (d *kqueueDriver) Enable(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	return d.Add(ev, dir, opFlags)
}

func (d *kqueueDriver) Disable(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	return d.Del(ev, dir, opFlags|api.DisableEvent)
}

func (d *kqueueDriver) AddConn(read, write *api.Event, opFlags api.OpFlags) error {
	if err := d.Add(read, api.Read, opFlags); err != nil {
		return err
	}
	return d.Add(write, api.Write, opFlags)
}

func (d *kqueueDriver) DelConn(read, write *api.Event, opFlags api.OpFlags) error {
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

func (d *kqueueDriver) Process(ctx context.Context, timeoutMs int) error {
	const maxEvents = 512
	var raw [maxEvents]unix.Kevent_t

	var ts *unix.Timespec
	if timeoutMs >= 0 {
		t := unix.NsecToTimespec(int64(timeoutMs) * 1e6)
		ts = &t
	}

	n, err := unix.Kevent(d.kq, nil, raw[:], ts)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return api.BackendErrorf("kevent wait: %v", err)
	}

	d.mu.Lock()
	fired := make([]*api.Event, 0, n)
	kevs := make([]unix.Kevent_t, 0, n)
	for i := 0; i < n; i++ {
		k := raw[i]
		dir := api.Read
		if k.Filter == unix.EVFILT_WRITE {
			dir = api.Write
		}
		slots, ok := d.byFd[int32(k.Ident)]
		if !ok || slots[dir] == nil {
			continue
		}
		ev := slots[dir]
		ev.ReturnedInstance = ev.Instance
		fired = append(fired, ev)
		kevs = append(kevs, k)
	}
	d.mu.Unlock()

	for i, ev := range fired {
		if ev.Instance != ev.ReturnedInstance {
			continue // stale: an earlier handler in this batch re-registered this event
		}
		k := kevs[i]
		ev.Ready = true
		ev.Available = int(k.Data)
		if k.Flags&unix.EV_EOF != 0 {
			ev.EOF = true
			ev.KQEOF = true
		}
		if k.Flags&unix.EV_ERROR != 0 {
			ev.Error = true
		}
		if k.Flags&unix.EV_ONESHOT != 0 {
			ev.Active = false
		}
		if ev.Handler != nil {
			ev.Handler(ev)
		}
	}
	return nil
}
