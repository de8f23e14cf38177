// File: reactor/driver_rtsig_stub_test.go
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/evreactor/api"
)

// TestRTSigDriver_FreshInstanceFires drives the real Add -> Raise ->
// Process path for a registration nothing has superseded: Handler must
// run and Ready must be set.
func TestRTSigDriver_FreshInstanceFires(t *testing.T) {
	drv := NewRTSigDriver(4).(*rtsigDriver)
	ev := &api.Event{}
	if err := drv.Add(ev, api.Read, 0); err != nil {
		t.Fatalf("Add: %v", err)
	}

	var fired atomic.Bool
	ev.Handler = func(ev *api.Event) { fired.Store(true) }

	drv.Raise(ev)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := drv.Process(ctx, 0); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !fired.Load() {
		t.Fatal("expected handler to fire for a fresh notification")
	}
	if !ev.Ready {
		t.Fatal("expected Ready to be set for a delivered notification")
	}
}

// TestRTSigDriver_StaleInstanceDropped exercises the GREEDY|RTSIG path's
// instance check with a real Add/Raise/Del/Add/Process sequence: a
// notification raised for one registration generation must be dropped
// if the same *api.Event is Del'd and re-Added (superseding it) before
// Process dequeues it, the way a closed-then-reused descriptor would.
func TestRTSigDriver_StaleInstanceDropped(t *testing.T) {
	drv := NewRTSigDriver(4).(*rtsigDriver)
	ev := &api.Event{}
	if err := drv.Add(ev, api.Read, 0); err != nil {
		t.Fatalf("Add: %v", err)
	}

	var fired atomic.Bool
	ev.Handler = func(ev *api.Event) { fired.Store(true) }

	drv.Raise(ev) // notification generated for the current registration

	if err := drv.Del(ev, api.Read, 0); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := drv.Add(ev, api.Read, 0); err != nil {
		t.Fatalf("re-Add: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := drv.Process(ctx, 0); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if fired.Load() {
		t.Fatal("handler fired for a notification raised against a superseded registration")
	}
}

// TestRTSigDriver_ProcessReturnsOnContextCancel confirms Process
// doesn't block forever when nothing is pending and the context is
// canceled.
func TestRTSigDriver_ProcessReturnsOnContextCancel(t *testing.T) {
	drv := NewRTSigDriver(1).(*rtsigDriver)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := drv.Process(ctx, 0); err == nil {
		t.Fatal("expected Process to report the canceled context")
	}
}
