// File: api/log.go
// Author: momentics <momentics@gmail.com>

package api

// Logger is the minimal structured-logging contract every package in
// this module depends on, never on a concrete backend. control.Logger
// wraps logrus to satisfy it; NopLogger is the zero-cost default.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
}

// FieldLogger is an optional capability a Logger may implement to
// produce a child logger carrying one extra structured field, e.g. a
// worker's thread id. Callers that need a per-component or per-thread
// logger type-assert for it and fall back to the plain Logger when
// it isn't implemented, the same duck-typed-capability pattern
// reactor drivers use for fdHolder.
type FieldLogger interface {
	Logger
	WithField(key string, value any) Logger
}

// NopLogger discards everything. Used where a caller hasn't wired a
// real Logger, so Pool and reactor code never need a nil check.
type NopLogger struct{}

func (NopLogger) Debug(args ...any)             {}
func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Info(args ...any)              {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warn(args ...any)              {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Error(args ...any)             {}
func (NopLogger) Errorf(string, ...any)         {}
func (NopLogger) WithField(string, any) Logger  { return NopLogger{} }

var _ FieldLogger = NopLogger{}
