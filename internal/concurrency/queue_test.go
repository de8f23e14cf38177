// File: internal/concurrency/queue_test.go
// Author: momentics <momentics@gmail.com>

package concurrency

import (
	"sync"
	"testing"

	"github.com/momentics/evreactor/api"
)

func TestTaskQueue_FIFOSingleProducer(t *testing.T) {
	var q TaskQueue
	var tasks []*api.Task
	for i := 0; i < 100; i++ {
		task := &api.Task{ID: uint64(i)}
		tasks = append(tasks, task)
		q.Enqueue(task)
	}
	for i := 0; i < 100; i++ {
		got, ok := q.Dequeue()
		if !ok {
			t.Fatalf("Dequeue() ok=false at i=%d", i)
		}
		if got != tasks[i] {
			t.Fatalf("Dequeue() at i=%d returned task ID %d, want %d", i, got.ID, tasks[i].ID)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected empty queue")
	}
}

func TestTaskQueue_EmptyDequeue(t *testing.T) {
	var q TaskQueue
	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected Dequeue to report empty on a fresh queue")
	}
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", q.Len())
	}
}

// TestTaskQueue_ConcurrentProducersConsumersExactlyOnce posts N tasks
// from several goroutines and drains them with several goroutines,
// verifying every task is dequeued exactly once regardless of
// submitter/worker count.
func TestTaskQueue_ConcurrentProducersConsumersExactlyOnce(t *testing.T) {
	const (
		producers = 8
		perProducer = 200
		consumers = 4
		total = producers * perProducer
	)

	var q TaskQueue
	var produced sync.WaitGroup
	produced.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer produced.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(&api.Task{ID: uint64(base*perProducer + i)})
			}
		}(p)
	}
	produced.Wait()

	if q.Len() != total {
		t.Fatalf("Len() after all enqueues = %d, want %d", q.Len(), total)
	}

	seen := make([]int32, total)
	var seenMu sync.Mutex
	var consumed sync.WaitGroup
	consumed.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer consumed.Done()
			for {
				task, ok := q.Dequeue()
				if !ok {
					return
				}
				seenMu.Lock()
				seen[task.ID]++
				seenMu.Unlock()
			}
		}()
	}
	consumed.Wait()

	for id, count := range seen {
		if count != 1 {
			t.Fatalf("task %d dequeued %d times, want exactly 1", id, count)
		}
	}
}
