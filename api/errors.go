// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Error kinds for the event and offload core. These are kinds, not a
// parallel type hierarchy: callers use errors.Is against the sentinels
// below and errors.As against *KindError when they need the wrapped
// detail.

package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every error this module returns wraps exactly one of
// these via KindError, so callers can classify failures with errors.Is
// without caring about the message text.
var (
	// ErrConfig covers unknown pool references, duplicate pool names,
	// and invalid numeric directive arguments.
	ErrConfig = errors.New("config error")

	// ErrResourceExhaustion covers queue overflow and thread-creation
	// failure.
	ErrResourceExhaustion = errors.New("resource exhaustion")

	// ErrPlatform covers semaphore, notify-channel, and sigmask failures.
	ErrPlatform = errors.New("platform error")

	// ErrStale names the instance-mismatch kind. Reactors drop stale
	// notifications silently, so no driver in this module ever returns
	// an error of this kind.
	ErrStale = errors.New("stale event")

	// ErrBackend covers reactor driver add/del failures, fatal for the
	// affected connection.
	ErrBackend = errors.New("backend error")
)

// KindError wraps one of the sentinels above with a message.
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *KindError) Unwrap() error { return e.Kind }

func newKind(kind error, format string, args ...any) *KindError {
	return &KindError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ConfigErrorf builds an ErrConfig-kinded error.
func ConfigErrorf(format string, args ...any) error {
	return newKind(ErrConfig, format, args...)
}

// ResourceExhaustionf builds an ErrResourceExhaustion-kinded error.
func ResourceExhaustionf(format string, args ...any) error {
	return newKind(ErrResourceExhaustion, format, args...)
}

// PlatformErrorf builds an ErrPlatform-kinded error.
func PlatformErrorf(format string, args ...any) error {
	return newKind(ErrPlatform, format, args...)
}

// BackendErrorf builds an ErrBackend-kinded error.
func BackendErrorf(format string, args ...any) error {
	return newKind(ErrBackend, format, args...)
}
