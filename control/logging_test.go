// control/logging_test.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"testing"

	"github.com/momentics/evreactor/api"
)

func TestLogger_ImplementsFieldLogger(t *testing.T) {
	var _ api.FieldLogger = NewLogger("test")
}

func TestLogger_WithFieldDoesNotPanic(t *testing.T) {
	l := NewLogger("pool")
	child := l.WithField("thread", 3)
	child.Debugf("worker %d woke", 3)
	child.Infof("hello")
	child.Warnf("careful")
	child.Errorf("boom")
	child.Debug("a")
	child.Info("b")
	child.Warn("c")
	child.Error("d")
}

func TestSetLevel_RejectsUnknown(t *testing.T) {
	if err := SetLevel("not-a-level"); err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
}

func TestSetLevel_AcceptsKnown(t *testing.T) {
	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(\"debug\"): %v", err)
	}
	if err := SetLevel("info"); err != nil {
		t.Fatalf("SetLevel(\"info\"): %v", err)
	}
}
