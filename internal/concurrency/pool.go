// File: internal/concurrency/pool.go
// Author: momentics <momentics@gmail.com>
//
// Pool is the worker-side half of the thread-pool offload subsystem,
// grounded on ngx_thread_pool_init / ngx_thread_pool_cycle /
// ngx_thread_pool_task_post (original_source/src/core/ngx_thread_pool.c).
// nginx bounds max_queue with a plain counter under its task mutex; this
// port uses golang.org/x/sync/semaphore.Weighted as that bound instead:
// Post acquires one unit of the pool's max_queue capacity up front, and
// a worker releases it back only once the task's completion has been
// published, so TryAcquire failing is exactly "queue full". Waking an
// idle worker for newly queued work is a separate, unrelated concern
// handled by a buffered wake channel.
package concurrency

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/evreactor/api"
	"golang.org/x/sync/semaphore"
)

// Pool is a fixed-size set of worker goroutines draining a lock-free
// intake queue and publishing completions onto a second lock-free
// queue for the reactor goroutine to drain via Drain.
type Pool struct {
	name     string
	threads  int
	maxQueue int

	intake     TaskQueue
	completion TaskQueue

	admission *semaphore.Weighted // bounds tasks queued-or-running to maxQueue
	wake      chan struct{}       // wakes a worker when a task is posted
	nextID    atomic.Uint64

	notify api.Notify
	log    api.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool starts threads worker goroutines immediately. notify is
// signaled once per completed task so the reactor wakes and calls
// Drain; it may be nil, in which case completions accumulate until
// Drain is called by some other trigger (tests do this).
func NewPool(name string, threads, maxQueue int, notify api.Notify, log api.Logger) (*Pool, error) {
	if threads <= 0 {
		return nil, api.ConfigErrorf("pool %q: threads must be positive, got %d", name, threads)
	}
	if maxQueue <= 0 {
		return nil, api.ConfigErrorf("pool %q: max_queue must be positive, got %d", name, maxQueue)
	}
	if log == nil {
		log = api.NopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:      name,
		threads:   threads,
		maxQueue:  maxQueue,
		admission: semaphore.NewWeighted(int64(maxQueue)),
		wake:      make(chan struct{}, maxQueue),
		notify:    notify,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
	p.wg.Add(threads)
	for i := 0; i < threads; i++ {
		go p.worker(i)
	}
	log.Infof("thread_pool %q started with %d threads, max_queue=%d", name, threads, maxQueue)
	return p, nil
}

func (p *Pool) Name() string  { return p.name }
func (p *Pool) Threads() int  { return p.threads }
func (p *Pool) MaxQueue() int { return p.maxQueue }

// Post submits task for execution on a worker goroutine. It returns an
// ErrResourceExhaustion-kinded error, leaving task.Event.Active false,
// if the pool is already holding maxQueue tasks: post at max_queue-1
// succeeds, post at max_queue fails. Once Stop has been called, Post
// rejects every task with the same error kind.
func (p *Pool) Post(task *api.Task) error {
	if p.ctx.Err() != nil {
		return api.ResourceExhaustionf("thread_pool %q: stopped", p.name)
	}
	if !p.admission.TryAcquire(1) {
		p.log.Errorf("thread_pool %q: queue full at depth %d/%d, rejecting task", p.name, p.maxQueue, p.maxQueue)
		return api.ResourceExhaustionf("thread_pool %q: queue full (max_queue=%d)", p.name, p.maxQueue)
	}

	task.ID = p.nextID.Add(1)
	if task.Event != nil {
		task.Event.Active = true
		task.Event.Complete = false
	}

	p.intake.Enqueue(task)
	p.log.Debugf("thread_pool %q: enqueued task %d", p.name, task.ID)

	select {
	case p.wake <- struct{}{}:
	default:
		// A worker is already awake or about to poll; wake is sized to
		// maxQueue so this default branch only fires when every
		// outstanding task already has a pending wake queued.
	}
	return nil
}

// worker is one nginx-style cycle: wait for a signaled task, dequeue,
// run its Handler, publish the completion, signal the reactor. It
// copies the pool log into a per-thread log tagged with this worker's
// id once, before entering the cycle, and threads that log into every
// task it runs.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	var log api.Logger = p.log
	if fl, ok := p.log.(api.FieldLogger); ok {
		log = fl.WithField("thread", id)
	}

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.wake:
		}

		task, ok := p.intake.Dequeue()
		if !ok {
			// wake and Enqueue are two separate publishes; a worker can
			// wake fractionally ahead of the enqueue becoming visible.
			// Spin the same way TaskQueue.Dequeue spins on a torn publish.
			for !ok {
				runtime.Gosched()
				task, ok = p.intake.Dequeue()
			}
		}
		log.Debugf("thread_pool %q: worker %d dequeued task %d", p.name, id, task.ID)

		if task.Handler != nil {
			task.Handler(p.ctx, log, task.Ctx)
		}

		task.NextStore(nil)
		p.completion.Enqueue(task)
		p.admission.Release(1)
		if p.notify != nil {
			if err := p.notify.Signal(); err != nil {
				log.Warnf("thread_pool %q: notify signal failed: %v", p.name, err)
			}
		}
	}
}

// Drain runs on the reactor goroutine: it pulls every task currently
// sitting in the completion queue and dispatches its Event.Handler,
// matching ngx_thread_pool_handler's event-module callback. Safe to
// call with an empty queue.
func (p *Pool) Drain() {
	for {
		task, ok := p.completion.Dequeue()
		if !ok {
			return
		}
		p.log.Debugf("thread_pool %q: draining completed task %d", p.name, task.ID)
		ev := task.Event
		if ev == nil {
			continue
		}
		ev.Complete = true
		ev.Active = false
		if ev.Handler != nil {
			ev.Handler(ev)
		}
	}
}

// Stop cancels all workers' blocking wait for wake and waits for them
// to exit. It does not drain or cancel tasks already queued or
// in-flight; callers that need those results should Drain after Stop
// returns, once all workers have finished publishing completions.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
	if p.notify != nil {
		if err := p.notify.Close(); err != nil {
			p.log.Warnf("thread_pool %q: notify close failed: %v", p.name, err)
		}
	}
}
