// File: api/notify.go
// Author: momentics <momentics@gmail.com>
//
// Notify is the cross-thread event-loop-wake primitive: any goroutine
// may Signal it; the reactor goroutine observes the wake and invokes the
// bound handler. Ported from ngx_create_notify/ngx_signal_notify in the
// nginx source's per-platform event backends.

package api

// Notify is bound to a handler and context at creation and exposes a
// pseudo-connection the reactor can poll alongside real descriptors.
type Notify interface {
	// Signal wakes the reactor at most once per pending batch —
	// coalescing repeated signals into one wake is explicitly
	// permitted and expected under load. Must be safe
	// to call concurrently from any number of goroutines and must not
	// block.
	Signal() error

	// Handle is invoked by the reactor on wake, before the bound
	// handler runs, to re-arm the underlying one-shot primitive where
	// the platform requires it (e.g. re-reading an eventfd).
	Handle() error

	// FD exposes the underlying descriptor so a reactor driver can
	// register it like any other readable fd.
	FD() uintptr

	// Close releases the underlying kernel object.
	Close() error
}

// NotifyFactory constructs a platform Notify bound to fn, called once
// per wake after Handle re-arms the primitive.
type NotifyFactory func(fn func()) (Notify, error)
