//go:build !linux && !windows && !darwin && !freebsd && !netbsd && !openbsd

// File: reactor/driver_new_other.go
// Author: momentics <momentics@gmail.com>
//
// Portability to platforms offering neither edge-triggered,
// level-triggered, nor completion-based readiness notification is an
// explicit non-goal for this module.

package reactor

import "github.com/momentics/evreactor/api"

// NewDriver reports a platform error: no supported backend exists.
func NewDriver() (api.Driver, error) {
	return nil, api.PlatformErrorf("no reactor driver for this platform")
}
