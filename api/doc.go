// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package api defines the public contracts of the event and offload
// core: the Event record, reactor capability flags, the Driver and
// Notify interfaces, and the Task/Pool shapes. Concrete backends live in
// package reactor; the lock-free offload implementation lives in
// internal/concurrency.
package api
