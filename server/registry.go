// server/registry.go
// Author: momentics <momentics@gmail.com>
//
// Registry owns every named thread pool a worker process has started.
// Referencing an undeclared pool by name (MustGet) is a fatal
// ConfigError. Registry starts exactly the specs it is given; a
// "default" pool is present when those specs include one, which
// control.ParseDirectives and DefaultConfig always do.

package server

import (
	"fmt"
	"sync"

	"github.com/momentics/evreactor/api"
	"github.com/momentics/evreactor/control"
	"github.com/momentics/evreactor/internal/concurrency"
)

// Registry maps pool names to running pools.
type Registry struct {
	mu      sync.RWMutex
	pools   map[string]*concurrency.Pool
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
	log     api.Logger
}

// NewRegistry constructs an empty Registry. metrics and debug may be
// nil; a nil metrics/debug registry simply means nothing is recorded.
func NewRegistry(metrics *control.MetricsRegistry, debug *control.DebugProbes, log api.Logger) *Registry {
	if log == nil {
		log = api.NopLogger{}
	}
	return &Registry{
		pools:   make(map[string]*concurrency.Pool),
		metrics: metrics,
		debug:   debug,
		log:     log,
	}
}

// Start instantiates and starts one pool per spec, sharing notify
// across all of them so a single reactor wakeup drains every pool.
// Duplicate names are a ConfigError.
func (r *Registry) Start(specs []control.PoolSpec, notify api.Notify) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, spec := range specs {
		if _, exists := r.pools[spec.Name]; exists {
			return api.ConfigErrorf("thread_pool %q already registered", spec.Name)
		}
		pool, err := concurrency.NewPool(spec.Name, spec.Threads, spec.MaxQueue, notify, r.log)
		if err != nil {
			return fmt.Errorf("starting thread_pool %q: %w", spec.Name, err)
		}
		r.pools[spec.Name] = pool
		name := spec.Name
		if r.debug != nil {
			r.debug.RegisterProbe("pool."+name, func() any {
				return map[string]any{"threads": pool.Threads(), "max_queue": pool.MaxQueue()}
			})
		}
	}
	return nil
}

// Get returns the named pool and whether it is registered. Callers that
// merely want to probe for an already-started pool (e.g. Reload's
// add-only logic) use this directly; callers dispatching work to a pool
// named by configuration should use MustGet instead, since an undeclared
// reference there is fatal.
func (r *Registry) Get(name string) (api.Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pools[name]
	if !ok {
		return nil, false
	}
	return p, true
}

// MustGet returns the named pool or a ConfigError if no thread_pool
// directive ever declared it. Referencing an undeclared pool is always
// a fatal configuration error, never a soft failure.
func (r *Registry) MustGet(name string) (api.Pool, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, api.ConfigErrorf("thread_pool %q is not declared", name)
	}
	return p, nil
}

// Drain calls Drain on every registered pool, publishing each pool's
// max_queue and threads metrics as it goes. Intended to be installed as one of a reactor.Loop's
// CompletionDrainers.
func (r *Registry) Drain() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, pool := range r.pools {
		pool.Drain()
		if r.metrics != nil {
			r.metrics.Set("pool."+name+".max_queue", pool.MaxQueue())
			r.metrics.Set("pool."+name+".threads", pool.Threads())
		}
	}
}

// Stop stops every registered pool. Deliberately partial: it does not
// wait for in-flight tasks beyond what Pool.Stop itself already waits
// for.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pool := range r.pools {
		pool.Stop()
	}
}
