// Package app provides application bootstrap and lifecycle management for
// the dotnetes operator.
//
// # Bootstrap
//
// NewApplication initializes logging, loads config.yaml from the configured
// directory, applies command-line overrides and validates the result. It then
// builds the cluster client for the selected authentication mode and wires
// the reconciler, scheduler, optional config watcher and optional metrics
// server (see Services). Any configuration problem, such as an unknown
// authentication mode, is reported here as a config.ConfigurationError and
// the loop never starts.
//
// # Lifecycle
//
// Run blocks until one of:
//
//   - SIGINT or SIGTERM
//   - cancellation of the context passed to Run
//   - the reconciliation loop stopping by itself after a fatal error
//
// In every case shutdown runs exactly once: the root context is cancelled,
// Run waits for the loop to exit, the config watcher stops and the metrics
// server shuts down. Run returns the loop's *scheduler.FatalLoopError, if
// any, so the process exits non-zero.
package app
