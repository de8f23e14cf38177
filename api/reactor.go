// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Driver is the reactor backend contract: the nine operations every
// platform implementation (epoll, kqueue, IOCP, the rt-signal reference
// backend) must supply, ported from ngx_event_actions_t.

package api

import "context"

// Driver is implemented by exactly one backend per process, bound at
// worker start. Registration operations and Process return nil or a
// *KindError wrapping ErrBackend; Init failures wrap ErrPlatform, and a
// Process that waits on ctx may return ctx's error when it ends. An
// ErrBackend from Add/Del is fatal for the affected connection; an
// ErrBackend from Process is fatal for the worker.
type Driver interface {
	// Add registers ev for the given direction under opFlags. Must not
	// be called when ev.Active is already true.
	Add(ev *Event, dir Direction, opFlags OpFlags) error

	// Del unregisters ev for the given direction. Must not be called
	// when ev.Active is already false.
	Del(ev *Event, dir Direction, opFlags OpFlags) error

	// Enable and Disable toggle a registration without a full
	// add/del round trip, where the backend supports it cheaply.
	Enable(ev *Event, dir Direction, opFlags OpFlags) error
	Disable(ev *Event, dir Direction, opFlags OpFlags) error

	// AddConn and DelConn are the batched convenience for registering
	// or removing both directions of a connection at once. May be a
	// no-op forwarding to Add/Del twice when the backend gains
	// nothing from batching.
	AddConn(read, write *Event, opFlags OpFlags) error
	DelConn(read, write *Event, opFlags OpFlags) error

	// Process performs one reactor wait (deriving its timeout from
	// the caller-supplied deadline, e.g. the next timer expiry),
	// collects ready events, clears Active for ONESHOT/CLEAR
	// registrations, validates Instance where supported, and invokes
	// each fired event's Handler synchronously on the calling
	// goroutine — the single reactor goroutine, by the one-reactor-
	// per-worker-goroutine contract.
	Process(ctx context.Context, timeoutMs int) error

	// Init performs one-time backend setup (opening the epoll/kqueue
	// fd, the IOCP handle, etc).
	Init() error

	// Done releases backend resources. Called once, at worker
	// shutdown.
	Done() error

	// Capabilities returns this driver's capability bitset, fixed for
	// its lifetime.
	Capabilities() Capability
}
