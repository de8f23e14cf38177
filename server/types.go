// server/types.go
// Author: momentics <momentics@gmail.com>
//
// Worker-level configuration: which thread pools to start and how the
// reactor idles when nothing is due.

package server

import (
	"time"

	"github.com/momentics/evreactor/control"
)

// Config holds all worker-side configuration parameters.
type Config struct {
	Pools []control.PoolSpec // parsed thread_pool directives

	// IdleTimeout bounds how long the reactor blocks in Process when no
	// timer is scheduled and nothing is posted.
	IdleTimeout time.Duration

	// EdgeTriggered selects epoll's EPOLLET mode on Linux; ignored on
	// other platforms.
	EdgeTriggered bool

	// LogLevel is one of "debug"/"info"/"warn"/"error".
	LogLevel string
}

// DefaultConfig returns the nginx-equivalent defaults: a single
// "default" thread_pool with 32 threads and a 65536-deep queue. A
// config file parsed by control.ParseDirectives gets this same pool
// injected automatically when it never declares one explicitly; this
// constructor exists for callers with no config file at all.
func DefaultConfig() *Config {
	return &Config{
		Pools: []control.PoolSpec{
			{Name: control.DefaultPoolName, Threads: control.DefaultThreads, MaxQueue: control.DefaultMaxQueue},
		},
		IdleTimeout: time.Second,
		LogLevel:    "info",
	}
}
