// File: internal/concurrency/pool_test.go
// Author: momentics <momentics@gmail.com>

package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/evreactor/api"
)

// fakeNotify counts Signal calls instead of driving a real fd, so tests
// can assert the reactor was woken without needing a reactor.
type fakeNotify struct {
	signals atomic.Int64
	closed  atomic.Bool
}

func (n *fakeNotify) Signal() error { n.signals.Add(1); return nil }
func (n *fakeNotify) Handle() error { return nil }
func (n *fakeNotify) FD() uintptr   { return 0 }
func (n *fakeNotify) Close() error  { n.closed.Store(true); return nil }

// recordingLogger counts calls per level instead of formatting anything,
// so tests can assert a log line fired without depending on message text.
// It implements api.FieldLogger so worker's per-thread tagging exercises
// the same code path a real control.Logger would.
type recordingLogger struct {
	debugCount, infoCount, warnCount, errorCount atomic.Int64
}

func (l *recordingLogger) Debug(args ...any)                 { l.debugCount.Add(1) }
func (l *recordingLogger) Debugf(format string, args ...any) { l.debugCount.Add(1) }
func (l *recordingLogger) Info(args ...any)                  { l.infoCount.Add(1) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.infoCount.Add(1) }
func (l *recordingLogger) Warn(args ...any)                  { l.warnCount.Add(1) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.warnCount.Add(1) }
func (l *recordingLogger) Error(args ...any)                 { l.errorCount.Add(1) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.errorCount.Add(1) }
func (l *recordingLogger) WithField(key string, value any) api.Logger { return l }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

// TestPool_OffloadRoundTrip posts one task and observes the worker ran
// it and the reactor-side Drain dispatched its completion handler —
// an end-to-end offload round trip.
func TestPool_OffloadRoundTrip(t *testing.T) {
	notify := &fakeNotify{}
	pool, err := NewPool("default", 2, 16, notify, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Stop()

	var workerRan atomic.Bool
	var completionRan atomic.Bool
	ev := &api.Event{}
	ev.Handler = func(ev *api.Event) { completionRan.Store(true) }

	task := &api.Task{
		Handler: func(ctx context.Context, log api.Logger, taskCtx any) { workerRan.Store(true) },
		Event:   ev,
	}
	if err := pool.Post(task); err != nil {
		t.Fatalf("Post: %v", err)
	}

	waitFor(t, workerRan.Load)
	waitFor(t, func() bool { return notify.signals.Load() == 1 })

	pool.Drain()
	if !completionRan.Load() {
		t.Fatal("expected completion handler to run after Drain")
	}
	if !ev.Complete || ev.Active {
		t.Fatalf("ev.Complete=%v ev.Active=%v, want true,false", ev.Complete, ev.Active)
	}
}

// TestPool_QueueBound verifies posting exactly max_queue tasks succeeds
// and the next one fails with ErrResourceExhaustion. Workers are
// blocked on a gate so the queue can't drain underneath the assertion.
func TestPool_QueueBound(t *testing.T) {
	const maxQueue = 4
	gate := make(chan struct{})
	pool, err := NewPool("bounded", 1, maxQueue, nil, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer func() {
		close(gate)
		pool.Stop()
	}()

	blocker := &api.Task{Handler: func(ctx context.Context, log api.Logger, taskCtx any) { <-gate }}
	if err := pool.Post(blocker); err != nil {
		t.Fatalf("Post(blocker): %v", err)
	}
	// Give the single worker a chance to claim blocker and start waiting
	// on gate, so the remaining maxQueue-1 slots are genuinely queued.
	time.Sleep(20 * time.Millisecond)

	for i := 0; i < maxQueue-1; i++ {
		if err := pool.Post(&api.Task{Handler: func(ctx context.Context, log api.Logger, taskCtx any) {}}); err != nil {
			t.Fatalf("Post #%d: unexpected error %v", i, err)
		}
	}

	if err := pool.Post(&api.Task{Handler: func(ctx context.Context, log api.Logger, taskCtx any) {}}); err == nil {
		t.Fatal("expected ErrResourceExhaustion once max_queue is reached")
	}
}

// TestPool_QueueTransitionsAreLogged verifies every queue transition
// emits a DEBUG record (enqueue, dequeue, drain) and overflow emits an
// ERROR record naming the pool.
func TestPool_QueueTransitionsAreLogged(t *testing.T) {
	rec := &recordingLogger{}
	pool, err := NewPool("logged", 1, 1, nil, rec)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Stop()

	gate := make(chan struct{})
	var started atomic.Bool
	blocker := &api.Task{Handler: func(ctx context.Context, log api.Logger, taskCtx any) {
		started.Store(true)
		<-gate
	}}
	if err := pool.Post(blocker); err != nil {
		t.Fatalf("Post(blocker): %v", err)
	}
	waitFor(t, started.Load)

	// max_queue is 1 and the only slot is held by blocker until it
	// returns, so this post must overflow.
	if err := pool.Post(&api.Task{Handler: func(ctx context.Context, log api.Logger, taskCtx any) {}}); err == nil {
		t.Fatal("expected overflow while blocker holds the only slot")
	}
	if got := rec.errorCount.Load(); got < 1 {
		t.Fatalf("error log count after overflow = %d, want at least 1", got)
	}

	close(gate)
	waitFor(t, func() bool { return pool.completion.Len() > 0 })
	pool.Drain()

	if got := rec.debugCount.Load(); got < 2 {
		t.Fatalf("debug log count = %d, want at least 2 (enqueue, dequeue)", got)
	}
}

// TestPool_TaskIDsMonotonic verifies IDs never repeat and increase in
// post order under single-goroutine submission.
func TestPool_TaskIDsMonotonic(t *testing.T) {
	pool, err := NewPool("ids", 4, 256, nil, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Stop()

	var mu sync.Mutex
	var ids []uint64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		task := &api.Task{Handler: func(ctx context.Context, log api.Logger, taskCtx any) { wg.Done() }}
		if err := pool.Post(task); err != nil {
			t.Fatalf("Post #%d: %v", i, err)
		}
		mu.Lock()
		ids = append(ids, task.ID)
		mu.Unlock()
	}
	wg.Wait()

	seen := make(map[uint64]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate task ID %d", id)
		}
		seen[id] = true
		if i > 0 && id <= ids[i-1] {
			t.Fatalf("task ID %d posted after ID %d, want strictly increasing", id, ids[i-1])
		}
	}
}

// TestPool_HighVolumeDrain pushes 10000 tasks through a small pool and
// confirms every completion is eventually observed by Drain exactly
// once, exercising the queue-drain race under sustained load.
func TestPool_HighVolumeDrain(t *testing.T) {
	const n = 10000
	notify := &fakeNotify{}
	pool, err := NewPool("volume", 8, n, notify, nil)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Stop()

	var executed atomic.Int64
	var completed atomic.Int64
	done := make(chan struct{})
	var completedCount atomic.Int64

	for i := 0; i < n; i++ {
		ev := &api.Event{}
		ev.Handler = func(ev *api.Event) {
			if completedCount.Add(1) == n {
				close(done)
			}
			completed.Add(1)
		}
		task := &api.Task{
			Handler: func(ctx context.Context, log api.Logger, taskCtx any) { executed.Add(1) },
			Event:   ev,
		}
		for {
			if err := pool.Post(task); err == nil {
				break
			}
			pool.Drain()
		}
	}

	deadline := time.After(5 * time.Second)
	finished := false
	for !finished {
		pool.Drain()
		select {
		case <-done:
			finished = true
		case <-deadline:
			t.Fatalf("timed out: executed=%d completed=%d", executed.Load(), completed.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if executed.Load() != n {
		t.Fatalf("executed = %d, want %d", executed.Load(), n)
	}
	if completed.Load() != n {
		t.Fatalf("completed = %d, want %d", completed.Load(), n)
	}
}
