// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Task and Pool are the public contracts for the thread-pool offload
// subsystem. The concrete lock-free implementation lives in
// internal/concurrency; this package only fixes the shape callers
// outside that package are allowed to depend on.

package api

import (
	"context"
	"sync/atomic"
)

// TaskHandlerFunc runs on a pool worker goroutine, never on the reactor
// goroutine. log is the owning worker's per-thread logger, already
// tagged with that worker's thread id. It must not block indefinitely
// without respecting ctx, and it must not panic across the worker
// boundary — a handler that fails must record that fact in its own ctx
// so the completion Event.Handler can observe it, conventionally via
// Event.Error.
type TaskHandlerFunc func(ctx context.Context, log Logger, taskCtx any)

// Task is one unit of offloaded work.
type Task struct {
	// ID is assigned on Post, monotonically increasing per Pool.
	ID uint64

	// Handler runs on a worker goroutine.
	Handler TaskHandlerFunc

	// Ctx is an opaque payload passed to Handler; the caller
	// guarantees its lifetime until Event.Handler (the completion
	// handler) runs.
	Ctx any

	// Event is fired on the reactor goroutine once Handler returns.
	// Event.Complete is set true and Event.Active false immediately
	// before the completion Handler runs (invariant matching
	// ngx_thread_pool_handler).
	Event *Event

	// next links this Task into exactly one intake or completion queue
	// at a time. It is an atomic.Pointer rather than a plain field
	// because the lock-free queues in internal/concurrency publish it
	// with a release store and read it with an acquire load across
	// goroutines under a release/acquire memory-ordering requirement; unlike
	// Event.Next (single-threaded, reactor-goroutine-only), a Task's
	// link is written by a submitter and read by a worker on a
	// different goroutine.
	next atomic.Pointer[Task]
}

// NextLoad returns the task currently linked after t, or nil.
func (t *Task) NextLoad() *Task { return t.next.Load() }

// NextStore links n after t.
func (t *Task) NextStore(n *Task) { t.next.Store(n) }

// NextCAS atomically swaps the link after t from old to new.
func (t *Task) NextCAS(old, new *Task) bool { return t.next.CompareAndSwap(old, new) }

// Pool is the public face of a named worker pool: submit work, observe
// depth, shut down.
type Pool interface {
	// Name returns the pool's configured name, used in log lines and
	// the directive that created it.
	Name() string

	// Post submits task for execution on a worker. Returns an
	// ErrResourceExhaustion-kinded error if the intake queue is at
	// capacity; task.Event.Active remains false in that case.
	Post(task *Task) error

	// Threads returns the configured worker count.
	Threads() int

	// MaxQueue returns the configured intake capacity.
	MaxQueue() int
}
