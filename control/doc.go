// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, logging, metrics, and debug introspection for the
// reactor core. Provides concurrent-safe state handling primitives:
//   - thread_pool directive parsing (PoolSpec)
//   - immutable snapshot config reads and atomic updates (ConfigStore)
//   - logrus-backed structured logging (Logger)
//   - metrics telemetry (MetricsRegistry) and debug probes (DebugProbes)
package control
