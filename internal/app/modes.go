package app

import (
	"context"
	"os/signal"
	"syscall"

	"dotnetes/pkg/logging"
)

// runOperator starts the optional metrics server and config watcher, then
// runs the reconciliation loop until a signal arrives, ctx is cancelled or
// the loop stops by itself.
//
// Signal Handling:
//   - SIGINT (Ctrl+C): Triggers graceful shutdown
//   - SIGTERM: Triggers graceful shutdown (common in container environments)
//
// A loop that stops by itself takes the whole process down with it; the
// returned error is the loop's fatal error.
func runOperator(ctx context.Context, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer services.Shutdown()

	if services.MetricsServer != nil {
		if err := services.MetricsServer.Start(ctx); err != nil {
			logging.Error("Operator", err, "Failed to start metrics server")
			return err
		}
	}

	if services.Watcher != nil {
		if err := services.Watcher.Start(ctx); err != nil {
			logging.Warn("Operator", "Config hot reload disabled: %v", err)
		}
	}

	go func() {
		_ = services.Scheduler.Run(ctx)
	}()

	logging.Info("Operator", "Operator started. Press Ctrl+C to stop.")

	select {
	case <-ctx.Done():
		logging.Info("Operator", "Shutdown requested")
	case <-services.Scheduler.Done():
		logging.Info("Operator", "Reconciliation loop exited, shutting down")
	}

	cancel()
	<-services.Scheduler.Done()
	services.Shutdown()

	if err := services.Scheduler.Err(); err != nil {
		logging.Error("Operator", err, "Operator stopped after a fatal error")
		return err
	}
	return nil
}
