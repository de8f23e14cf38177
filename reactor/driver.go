// File: reactor/driver.go
// Author: momentics <momentics@gmail.com>
//
// Loop ties a backend api.Driver together with the Timer and Posted
// queue, the reactor's other external collaborators: each call to RunOnce derives a wait timeout from the
// next timer deadline, lets the driver dispatch ready events, expires
// any timers that are now due, and drains one pass of the posted queue.

package reactor

import (
	"context"
	"time"

	"github.com/momentics/evreactor/api"
)

// Loop bundles one driver with its timer and posted-queue collaborators.
// Exactly one goroutine may call RunOnce/Run at a time — the single-
// reactor-per-worker-goroutine contract is enforced by
// convention, not by a lock.
type Loop struct {
	Driver api.Driver
	Timer  *Timer
	Posted *Posted

	// IdleTimeoutMs bounds how long RunOnce may block when no timer is
	// scheduled, satisfying the testable property that Process returns
	// promptly with no armed events and no timers scheduled.
	IdleTimeoutMs int

	// CompletionDrainers are called once per RunOnce, after the posted
	// queue drains. server.Lifecycle.StartWorker appends Registry.Drain
	// here, which drains every thread pool, so completed tasks'
	// Event.Handler runs on this reactor goroutine, never on a worker
	// goroutine.
	CompletionDrainers []func()

	nowMs func() int64
}

// NewLoop constructs a Loop with its own Timer and Posted queue.
func NewLoop(drv api.Driver) *Loop {
	return &Loop{
		Driver:        drv,
		Timer:         NewTimer(),
		Posted:        NewPosted(),
		IdleTimeoutMs: 1000,
		nowMs:         func() int64 { return time.Now().UnixMilli() },
	}
}

// RunOnce performs one iteration: compute the wait timeout, call
// Driver.Process, expire due timers, drain one pass of Posted.
func (l *Loop) RunOnce(ctx context.Context) error {
	timeout := l.IdleTimeoutMs
	if deadline, ok := l.Timer.NextDeadline(); ok {
		if remaining := deadline - l.nowMs(); remaining < int64(timeout) {
			if remaining < 0 {
				remaining = 0
			}
			timeout = int(remaining)
		}
	}

	if err := l.Driver.Process(ctx, timeout); err != nil {
		return err
	}

	for _, ev := range l.Timer.ExpireEventsBefore(l.nowMs()) {
		if ev.Handler != nil {
			ev.Handler(ev)
		}
	}

	l.Posted.DrainOnce()

	for _, drain := range l.CompletionDrainers {
		drain()
	}
	return nil
}

// Run calls RunOnce until ctx is cancelled or RunOnce returns an error.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := l.RunOnce(ctx); err != nil {
			return err
		}
	}
}
