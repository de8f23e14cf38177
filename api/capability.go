// File: api/capability.go
// Author: momentics <momentics@gmail.com>
//
// Capability is the global bitset a bound reactor driver publishes at
// init. Every helper in package reactor's readiness.go branches on these
// flags, so backend code sets them once and all event-management logic
// is capability-driven rather than backend-typed. Ported from the
// NGX_USE_*_EVENT / NGX_HAVE_*_EVENT constants in
// original_source/src/event/ngx_event.h.

package api

// Capability is a bitset describing how a bound reactor driver behaves.
type Capability uint32

const (
	// Level: filter re-arms automatically; readiness reported each
	// process cycle (select/poll/devpoll/epoll level-triggered).
	Level Capability = 1 << iota

	// Oneshot: filter is consumed on notification, no explicit delete
	// needed.
	OneshotCap

	// Clear: edge-triggered, only transitions reported; initial level
	// reported once (kqueue, epoll edge-triggered).
	Clear

	// Kqueue: backend reports eof, errno, and an available-bytes count
	// per event.
	Kqueue

	// Lowat: backend supports low-water-mark registration.
	Lowat

	// Instance: backend carries an instance/generation bit so stale
	// events can be filtered (kqueue, epoll, rt-signals).
	Instance

	// Greedy: caller must drain to EAGAIN per notification (epoll,
	// rt-signals).
	Greedy

	// Edge: edges only, no initial level (historical multiplexers).
	Edge

	// RTSig: no per-event register/unregister; registration is
	// global.
	RTSig

	// AIO: completion semantics, no readiness model.
	AIO

	// IOCP: handle is registered once for the life of the fd.
	IOCP
)

// Has reports whether every bit in want is set in c.
func (c Capability) Has(want Capability) bool { return c&want == want }

// Any reports whether at least one bit in want is set in c.
func (c Capability) Any(want Capability) bool { return c&want != 0 }

func (c Capability) String() string {
	names := []struct {
		bit  Capability
		name string
	}{
		{Level, "LEVEL"}, {OneshotCap, "ONESHOT"}, {Clear, "CLEAR"},
		{Kqueue, "KQUEUE"}, {Lowat, "LOWAT"}, {Instance, "INSTANCE"},
		{Greedy, "GREEDY"}, {Edge, "EDGE"}, {RTSig, "RTSIG"},
		{AIO, "AIO"}, {IOCP, "IOCP"},
	}
	out := ""
	for _, n := range names {
		if c.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "NONE"
	}
	return out
}

// OpFlags are the per-call flags passed to a Driver's Add/Del/Enable/
// Disable, distinct from the process-wide Capability bitset.
type OpFlags uint32

const (
	// CloseEvent: the file is about to be closed; the backend must
	// flush any pending removal before the fd is reused.
	CloseEvent OpFlags = 1 << iota
	DisableEvent
	LowatEvent
	VnodeEvent

	// Filter-mode triad, mirrors the Capability bits of the same name
	// but scoped to a single Add call (a backend may support more
	// than one mode; the caller picks per-registration).
	LevelMode
	OneshotMode
	ClearMode
)
