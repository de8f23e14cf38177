// File: internal/concurrency/queue.go
// Author: momentics <momentics@gmail.com>
//
// TaskQueue is the lock-free linked queue backing both the thread
// pool's intake (many submitters, many workers dequeuing) and
// completion (many workers, one reactor goroutine dequeuing) queues,
// ported from the algorithm in ngx_thread_pool_task_post /
// ngx_thread_pool_cycle / ngx_thread_pool_handler
// (original_source/src/core/ngx_thread_pool.c).
//
// nginx represents the tail as last_p, the address of either &in.first
// (empty) or the previous task's &task->next, and publishes a new tail
// with ngx_atomic_cmp_set(&last_p, lp, &task->next) followed by a plain
// store through the old lp. Go has no address-of-struct-field atomics,
// so this port represents the tail as an atomic.Pointer[api.Task]
// (nil means empty) and publishes with a tail CAS followed by a release
// store into the previous tail task's next field — same two-step
// publish, same "first task / racing dequeue" case when the CAS target
// is nil, just without relying on a raw pointer-into-a-field trick.
//
// The dequeue side additionally CAS-claims the head before reading
// onward, which nginx's algorithm also does (the do-while loop CAS-ing
// tp->in.first). That CAS is what lets multiple worker goroutines race
// for the intake queue safely; the completion queue has only one
// consumer (the reactor goroutine) so the CAS there never contends, but
// both queues share one implementation for simplicity.
package concurrency

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/evreactor/api"
)

// TaskQueue is a lock-free FIFO of *api.Task.
type TaskQueue struct {
	head atomic.Pointer[api.Task]
	tail atomic.Pointer[api.Task]
}

// Enqueue publishes task as the new tail. Safe for any number of
// concurrent callers.
func (q *TaskQueue) Enqueue(task *api.Task) {
	task.NextStore(nil)
	for {
		prev := q.tail.Load()
		if prev == nil {
			// Either the queue was empty, or a consumer just drained
			// the last task and reset tail to nil concurrently — the
			// "first task / racing dequeue" case from
			// ngx_thread_pool_task_post.
			if q.tail.CompareAndSwap(nil, task) {
				q.head.Store(task)
				return
			}
			continue
		}
		if q.tail.CompareAndSwap(prev, task) {
			prev.NextStore(task)
			return
		}
	}
}

// Dequeue removes and returns the head task, or (nil, false) if the
// queue is transiently or actually empty. A transient false (the queue
// is mid-publish, not actually empty) resolves on retry — callers
// implement the "yield and retry" loop around
// this call.
func (q *TaskQueue) Dequeue() (*api.Task, bool) {
	for {
		head := q.head.Load()
		if head == nil {
			return nil, false
		}
		if !q.head.CompareAndSwap(head, nil) {
			continue // another consumer claimed head first, retry
		}

		next := head.NextLoad()
		if next != nil {
			q.head.Store(next)
			return head, true
		}

		// head.Next is nil: either head was the last task (tail still
		// equals head, so resetting tail to nil marks the queue
		// empty) or an enqueuer has CAS'd itself onto tail but hasn't
		// yet published head.Next — spin-wait for that publish, as
		// nginx's cycle does with ngx_thread_yield / goto again.
		if q.tail.CompareAndSwap(head, nil) {
			return head, true
		}
		for head.NextLoad() == nil {
			runtime.Gosched()
		}
		q.head.Store(head.NextLoad())
		return head, true
	}
}

// Len walks the queue to count its elements. O(n); intended for
// metrics/tests, never for the hot path.
func (q *TaskQueue) Len() int {
	n := 0
	for cur := q.head.Load(); cur != nil; cur = cur.NextLoad() {
		n++
	}
	return n
}
