// control/logging.go
// Author: momentics <momentics@gmail.com>
//
// Structured logging backed by logrus, wrapping it behind api.Logger so
// reactor and internal/concurrency never import logrus directly.

package control

import (
	"github.com/momentics/evreactor/api"
	"github.com/sirupsen/logrus"
)

// Logger adapts a *logrus.Entry to api.Logger.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger builds a Logger tagged with a "component" field, mirroring
// how the rest of this module names its subsystems in log lines.
func NewLogger(component string) *Logger {
	return &Logger{entry: logrus.WithField("component", component)}
}

func (l *Logger) Debug(args ...any)                 { l.entry.Debug(args...) }
func (l *Logger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(args ...any)                  { l.entry.Info(args...) }
func (l *Logger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(args ...any)                  { l.entry.Warn(args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(args ...any)                 { l.entry.Error(args...) }
func (l *Logger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

// WithField returns a child Logger carrying one extra field, e.g. a
// worker's thread id, without disturbing the parent's fields.
func (l *Logger) WithField(key string, value any) api.Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

var _ api.FieldLogger = (*Logger)(nil)

// SetLevel adjusts the package-wide logrus level, e.g. from a
// "debug"/"info"/"warn"/"error" config directive.
func SetLevel(level string) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return api.ConfigErrorf("log level %q: %v", level, err)
	}
	logrus.SetLevel(lv)
	return nil
}
