// File: reactor/timer.go
// Author: momentics <momentics@gmail.com>
//
// Timer orders pending Events by absolute deadline so Driver.Process can
// derive a wait timeout and expire due events. The nginx source inlines
// a red-black tree node into ngx_event_t to avoid a second allocation
// per timer (original_source/src/event/ngx_event.h); this module takes
// an allowed alternative to an intrusive tree: "switch to an external
// ordered structure keyed by an opaque handle" — and uses a
// container/heap binary min-heap instead. api.Event still carries the
// rbtree-shaped fields for structural fidelity; Timer does not touch
// them. See DESIGN.md for the recorded decision.

package reactor

import "container/heap"

// Timer is a min-heap of *api.Event ordered by RBKey (absolute deadline
// in milliseconds). Not safe for concurrent use — callers on the reactor
// goroutine only, matching the single-threaded reactor contract.
type Timer struct {
	h timerHeap
}

// NewTimer returns an empty Timer.
func NewTimer() *Timer {
	t := &Timer{}
	heap.Init(&t.h)
	return t
}

// Set inserts ev at deadline deadlineMs, setting ev.TimerSet and
// ev.RBKey. ev must not already be TimerSet (equivalent to invariant 5,
// TimerSet and timer-queue membership are the same fact).
func (t *Timer) Set(ev eventLike, deadlineMs int64) {
	ev.setTimerSet(true)
	ev.setRBKey(deadlineMs)
	heap.Push(&t.h, ev)
}

// Remove takes ev out of the timer structure, clearing TimerSet. A
// no-op if ev was not TimerSet.
func (t *Timer) Remove(ev eventLike) {
	if !ev.isTimerSet() {
		return
	}
	for i, e := range t.h {
		if e == ev {
			heap.Remove(&t.h, i)
			break
		}
	}
	ev.setTimerSet(false)
}

// Len reports how many events are currently scheduled.
func (t *Timer) Len() int { return len(t.h) }

// NextDeadline returns the earliest deadline in the heap and true, or
// (0, false) when the heap is empty.
func (t *Timer) NextDeadline() (int64, bool) {
	if len(t.h) == 0 {
		return 0, false
	}
	return t.h[0].deadline(), true
}

// ExpireBefore pops and returns every event whose deadline is <= nowMs,
// clearing TimerSet and setting Timedout on each, in deadline order.
func (t *Timer) ExpireBefore(nowMs int64) []eventLike {
	var expired []eventLike
	for len(t.h) > 0 && t.h[0].deadline() <= nowMs {
		ev := heap.Pop(&t.h).(eventLike)
		ev.setTimerSet(false)
		ev.setTimedout(true)
		expired = append(expired, ev)
	}
	return expired
}

// eventLike is the minimal surface Timer needs from an *api.Event,
// narrowed so this file has no import cycle concerns and so tests can
// exercise Timer against a fake.
type eventLike interface {
	deadline() int64
	setRBKey(int64)
	setTimerSet(bool)
	isTimerSet() bool
	setTimedout(bool)
}

type timerHeap []eventLike

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].deadline() < h[j].deadline() }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)         { *h = append(*h, x.(eventLike)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
