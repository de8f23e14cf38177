//go:build windows

// File: reactor/driver_new_windows.go
// Author: momentics <momentics@gmail.com>

package reactor

import "github.com/momentics/evreactor/api"

// NewDriver constructs the default backend for this platform: IOCP.
func NewDriver() (api.Driver, error) {
	return NewIOCPDriver(), nil
}
