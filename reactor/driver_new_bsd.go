//go:build darwin || freebsd || netbsd || openbsd

// File: reactor/driver_new_bsd.go
// Author: momentics <momentics@gmail.com>

package reactor

import "github.com/momentics/evreactor/api"

// NewDriver constructs the default backend for this platform: kqueue.
func NewDriver() (api.Driver, error) {
	return NewKqueueDriver(), nil
}
