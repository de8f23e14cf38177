// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
//
// Package concurrency implements the lock-free thread-pool offload
// subsystem: TaskQueue (the intake/completion MPMC linked queue), the
// cross-thread Notify primitive workers use to wake the reactor
// goroutine, and Pool, which ties both together with a counting
// semaphore bounding the number of queued-or-running tasks to max_queue.
//
// Everything here is a direct port of nginx's ngx_thread_pool_t
// (original_source/src/core/ngx_thread_pool.c): a fixed set of worker
// goroutines pull tasks off an intake queue, run them off the reactor
// goroutine, and push completions onto a second queue that the reactor
// drains and dispatches one Event.Handler call at a time.
package concurrency
