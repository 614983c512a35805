// Package logging provides subsystem-tagged structured logging for the
// dotnetes operator, built on Go's standard slog package.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Bootstrap", "Operator starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Warn("Reconciler", "Namespace %s skipped", ns)
//	logging.Error("Scheduler", err, "Reconciliation loop terminated")
//
// Every entry carries a "subsystem" attribute and, for Error, an "error"
// attribute. Init selects between text and JSON output.
//
// # Controller-Runtime Integration
//
// Init also installs a logr bridge over the same slog handler as the
// controller-runtime logger, so client and cache internals log through the
// operator's output instead of warning about an uninitialized logger.
//
// # Thread Safety
//
// All functions are safe for concurrent use.
package logging
