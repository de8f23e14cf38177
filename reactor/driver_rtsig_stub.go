// File: reactor/driver_rtsig_stub.go
// Author: momentics <momentics@gmail.com>
//
// rtsigDriver is a reference/test backend exercising the RTSIG
// capability path: GREEDY|RTSIG. Real-time signals have no portable
// surface in the Go standard library or golang.org/x/sys that matches
// nginx's ngx_rtsig_module (which multiplexes SIGRTMIN..SIGRTMAX via
// sigwaitinfo), so this backend is deliberately in-process: registration
// is global (no per-event add/del, per the RTSIG capability's meaning),
// and Process drains a channel that Signal-like callers push onto. It
// exists so readiness.go's "no-op; registration is implicit" branch and
// the stale-instance test path have a concrete RTSIG-capable driver to
// run against — see DESIGN.md for why this is documented as
// reference-only rather than production.

package reactor

import (
	"context"
	"sync"

	"github.com/momentics/evreactor/api"
)

type rtsigDriver struct {
	mu      sync.Mutex
	pending chan *api.Event
	caps    api.Capability
}

// NewRTSigDriver constructs the reference RTSIG-capability backend with
// the given pending-notification buffer size.
func NewRTSigDriver(buffer int) api.Driver {
	return &rtsigDriver{
		pending: make(chan *api.Event, buffer),
		caps:    api.Greedy | api.RTSig,
	}
}

func (d *rtsigDriver) Capabilities() api.Capability { return d.caps }
func (d *rtsigDriver) Init() error                  { return nil }
func (d *rtsigDriver) Done() error                  { close(d.pending); return nil }

// Add is a no-op beyond marking Active: RTSIG has no per-event
// register/unregister.
func (d *rtsigDriver) Add(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	ev.Active = true
	ev.Instance = !ev.Instance
	return nil
}

func (d *rtsigDriver) Del(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	ev.Active = false
	return nil
}

func (d *rtsigDriver) Enable(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	return d.Add(ev, dir, opFlags)
}

func (d *rtsigDriver) Disable(ev *api.Event, dir api.Direction, opFlags api.OpFlags) error {
	return d.Del(ev, dir, opFlags)
}

func (d *rtsigDriver) AddConn(read, write *api.Event, opFlags api.OpFlags) error { return nil }
func (d *rtsigDriver) DelConn(read, write *api.Event, opFlags api.OpFlags) error { return nil }

// Raise simulates the kernel delivering a real-time signal for ev, the
// way a test driving this backend stands in for sigwaitinfo. It
// snapshots ev's current Instance into ReturnedInstance at the moment
// the notification is generated, mirroring the instance bit nginx
// encodes into the signal payload at raise time; Process compares that
// snapshot against the event's Instance at delivery time, so an ev
// that was Del'd and re-Added (flipping Instance) between Raise and
// Process is recognized as stale and dropped.
func (d *rtsigDriver) Raise(ev *api.Event) {
	d.mu.Lock()
	ev.ReturnedInstance = ev.Instance
	d.mu.Unlock()
	d.pending <- ev
}

func (d *rtsigDriver) Process(ctx context.Context, timeoutMs int) error {
	select {
	case ev, ok := <-d.pending:
		if !ok {
			return nil
		}
		d.mu.Lock()
		stale := ev.Instance != ev.ReturnedInstance
		d.mu.Unlock()
		if stale {
			return nil // stale, invariant 3
		}
		ev.Ready = true
		if ev.Handler != nil {
			ev.Handler(ev)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
