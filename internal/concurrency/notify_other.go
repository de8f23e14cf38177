//go:build !linux

// File: internal/concurrency/notify_other.go
// Author: momentics <momentics@gmail.com>
//
// pipeNotify implements api.Notify as a self-pipe: a write of one byte
// wakes a blocked reader on the other end. This is the portable
// fallback used wherever a platform lacks a dedicated
// kernel notify primitive (eventfd is Linux-only); os.Pipe works on
// every platform this module builds for, including Windows.

package concurrency

import (
	"os"

	"github.com/momentics/evreactor/api"
)

type pipeNotify struct {
	r, w *os.File
	fn   func()
}

// NewNotify constructs the platform Notify: a self-pipe everywhere
// eventfd is unavailable.
func NewNotify(fn func()) (api.Notify, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, api.PlatformErrorf("self-pipe: %v", err)
	}
	return &pipeNotify{r: r, w: w, fn: fn}, nil
}

// Signal writes one byte. Multiple Signal calls before the reader
// drains coalesce into whatever bytes are sitting in the pipe buffer —
// Handle drains all of them in one read, same coalescing semantics as
// the eventfd backend.
func (n *pipeNotify) Signal() error {
	_, err := n.w.Write([]byte{1})
	if err != nil {
		return api.PlatformErrorf("self-pipe write: %v", err)
	}
	return nil
}

// Handle drains whatever is currently buffered and invokes the bound
// handler once.
func (n *pipeNotify) Handle() error {
	buf := make([]byte, 4096)
	_, err := n.r.Read(buf)
	if err != nil {
		return api.PlatformErrorf("self-pipe read: %v", err)
	}
	if n.fn != nil {
		n.fn()
	}
	return nil
}

func (n *pipeNotify) FD() uintptr { return n.r.Fd() }

func (n *pipeNotify) Close() error {
	werr := n.w.Close()
	rerr := n.r.Close()
	if werr != nil {
		return werr
	}
	return rerr
}
