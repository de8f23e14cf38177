//go:build linux

// File: reactor/driver_new_linux.go
// Author: momentics <momentics@gmail.com>

package reactor

import "github.com/momentics/evreactor/api"

// NewDriver constructs the default backend for this platform: Linux
// epoll, level-triggered (the nginx default; pass NewEpollDriver(true)
// directly for edge-triggered).
func NewDriver() (api.Driver, error) {
	return NewEpollDriver(false), nil
}
