// File: reactor/timer_event.go
// Author: momentics <momentics@gmail.com>
//
// wrapEvent adapts *api.Event to the eventLike interface Timer needs,
// keeping api.Event itself a plain data struct with no heap-specific
// methods.

package reactor

import "github.com/momentics/evreactor/api"

type timerEvent struct{ ev *api.Event }

func wrapEvent(ev *api.Event) timerEvent { return timerEvent{ev} }

func (t timerEvent) deadline() int64        { return t.ev.RBKey }
func (t timerEvent) setRBKey(v int64)       { t.ev.RBKey = v }
func (t timerEvent) setTimerSet(v bool)     { t.ev.TimerSet = v }
func (t timerEvent) isTimerSet() bool       { return t.ev.TimerSet }
func (t timerEvent) setTimedout(v bool)     { t.ev.Timedout = v }

// Unwrap returns the underlying *api.Event. Used by callers that receive
// an eventLike from Timer.ExpireBefore and need the concrete type back.
func Unwrap(e interface{ deadline() int64 }) *api.Event {
	if te, ok := e.(timerEvent); ok {
		return te.ev
	}
	return nil
}

// SetEvent inserts ev into t at deadlineMs. Thin wrapper over Timer.Set
// so callers outside this package never see the eventLike interface.
func (t *Timer) SetEvent(ev *api.Event, deadlineMs int64) {
	t.Set(wrapEvent(ev), deadlineMs)
}

// RemoveEvent takes ev out of t, a no-op if ev was not scheduled.
func (t *Timer) RemoveEvent(ev *api.Event) {
	t.Remove(wrapEvent(ev))
}

// ExpireEventsBefore returns every *api.Event whose deadline has passed,
// in deadline order, with TimerSet cleared and Timedout set. Returns nil
// when nothing has expired.
func (t *Timer) ExpireEventsBefore(nowMs int64) []*api.Event {
	raw := t.ExpireBefore(nowMs)
	if len(raw) == 0 {
		return nil
	}
	out := make([]*api.Event, 0, len(raw))
	for _, e := range raw {
		if te, ok := e.(timerEvent); ok {
			out = append(out, te.ev)
		}
	}
	return out
}
