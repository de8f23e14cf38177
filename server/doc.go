// Package server
// Author: momentics <momentics@gmail.com>
//
// Worker-process wiring: Config describes what to start, Registry owns
// the named thread pools, and Lifecycle ties a platform reactor driver
// to the Registry's completion draining so a caller only needs to
// build a Config, call NewLifecycle and StartWorker, then run
// Lifecycle.Loop.Run.
package server
