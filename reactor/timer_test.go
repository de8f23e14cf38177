// File: reactor/timer_test.go
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"testing"

	"github.com/momentics/evreactor/api"
)

func TestTimer_OrdersByDeadline(t *testing.T) {
	timer := NewTimer()
	a := &api.Event{}
	b := &api.Event{}
	c := &api.Event{}

	timer.SetEvent(a, 300)
	timer.SetEvent(b, 100)
	timer.SetEvent(c, 200)

	if !a.TimerSet || !b.TimerSet || !c.TimerSet {
		t.Fatal("expected TimerSet on all three events")
	}

	deadline, ok := timer.NextDeadline()
	if !ok || deadline != 100 {
		t.Fatalf("NextDeadline = %d, %v; want 100, true", deadline, ok)
	}

	expired := timer.ExpireEventsBefore(250)
	if len(expired) != 2 {
		t.Fatalf("expired %d events, want 2", len(expired))
	}
	if expired[0] != b || expired[1] != c {
		t.Fatalf("expired out of order: got %v, %v", expired[0], expired[1])
	}
	if b.TimerSet || c.TimerSet {
		t.Fatal("expected TimerSet cleared on expired events")
	}
	if !b.Timedout || !c.Timedout {
		t.Fatal("expected Timedout set on expired events")
	}
	if timer.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (only a remains)", timer.Len())
	}
}

func TestTimer_RemoveBeforeExpiry(t *testing.T) {
	timer := NewTimer()
	ev := &api.Event{}
	timer.SetEvent(ev, 100)
	timer.RemoveEvent(ev)

	if ev.TimerSet {
		t.Fatal("expected TimerSet cleared after RemoveEvent")
	}
	if timer.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", timer.Len())
	}

	// Removing again must be a no-op, not a panic.
	timer.RemoveEvent(ev)
}

func TestTimer_EmptyNextDeadline(t *testing.T) {
	timer := NewTimer()
	if _, ok := timer.NextDeadline(); ok {
		t.Fatal("expected ok=false on empty timer")
	}
	if expired := timer.ExpireEventsBefore(1 << 40); expired != nil {
		t.Fatalf("expected no expired events on empty timer, got %d", len(expired))
	}
}
