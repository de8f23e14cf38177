// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor implements the capability-driven event reactor: the
// readiness helpers (HandleRead/HandleWrite), the timer and posted-event
// collaborators, and one api.Driver backend per platform (epoll, kqueue,
// IOCP, plus a reference RTSIG backend). Exactly one goroutine per
// worker process drives a Loop's Process call; that single-threaded
// contract is by convention, not by a runtime lock, matching nginx's
// one-reactor-per-worker-process model.
package reactor
