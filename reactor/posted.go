// File: reactor/posted.go
// Author: momentics <momentics@gmail.com>
//
// Posted is the reactor's deferred-invocation queue: handlers that want
// to run "soon, but not re-entrantly from inside the current Process
// call" post an Event here instead of invoking Handler directly. Single
// consumer, single producer — both are the reactor goroutine — so a
// plain ring-buffer deque suffices; no lock-free structure is needed
// here (that's reserved for the cross-goroutine thread-pool queues in
// internal/concurrency).
//
// Backed by github.com/eapache/queue, a ring-buffer deque well suited
// to exactly this single-threaded FIFO.

package reactor

import (
	"github.com/eapache/queue"
	"github.com/momentics/evreactor/api"
)

// Posted is a FIFO of Events awaiting deferred dispatch on the reactor
// goroutine. Not safe for concurrent use.
type Posted struct {
	q *queue.Queue
}

// NewPosted returns an empty Posted queue.
func NewPosted() *Posted {
	return &Posted{q: queue.New()}
}

// Add appends ev to the queue and sets ev.Posted. ev must not already be
// Posted.
func (p *Posted) Add(ev *api.Event) {
	ev.Posted = true
	p.q.Add(ev)
}

// Len reports how many events are waiting.
func (p *Posted) Len() int { return p.q.Length() }

// DrainOnce invokes Handler for every event currently queued, clearing
// Posted on each before the call, and returns the count processed. Events
// posted by a handler invoked during this call are not processed until
// the next DrainOnce — matching the nginx posted-queue convention of one
// pass per reactor cycle, which bounds a pathological repost loop to one
// extra cycle's latency rather than starving Process forever.
func (p *Posted) DrainOnce() int {
	n := p.q.Length()
	for i := 0; i < n; i++ {
		ev := p.q.Remove().(*api.Event)
		ev.Posted = false
		if ev.Handler != nil {
			ev.Handler(ev)
		}
	}
	return n
}
