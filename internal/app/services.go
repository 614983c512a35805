package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"dotnetes/internal/client"
	"dotnetes/internal/config"
	"dotnetes/internal/reconciler"
	"dotnetes/internal/scheduler"
	"dotnetes/internal/server"
	"dotnetes/pkg/logging"
)

// ShutdownTimeout bounds the graceful shutdown of the metrics server.
const ShutdownTimeout = 5 * time.Second

// Services holds all initialized components used by the application.
//
// Watcher and MetricsServer are nil when disabled.
type Services struct {
	Client     client.ClusterClient
	Registry   *prometheus.Registry
	Metrics    *reconciler.Metrics
	Reconciler *reconciler.Reconciler
	Interval   *config.IntervalCell
	Scheduler  *scheduler.Scheduler

	Watcher       *config.Watcher
	MetricsServer *server.MetricsServer

	shutdownOnce sync.Once
}

// InitializeServices wires every component from the loaded configuration.
func InitializeServices(cfg *Config) (*Services, error) {
	operatorCfg := cfg.OperatorConfig

	clusterClient := cfg.ClusterClient
	if clusterClient == nil {
		restConfig, err := client.NewRestConfig(operatorCfg.Kubernetes)
		if err != nil {
			return nil, fmt.Errorf("failed to configure cluster access (%s): %w", operatorCfg.Kubernetes.ClusterAuthentication, err)
		}
		clusterClient, err = client.NewClusterClient(restConfig)
		if err != nil {
			return nil, err
		}
		logging.Info("Services", "Connecting to %s using %s authentication", restConfig.Host, operatorCfg.Kubernetes.ClusterAuthentication)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := reconciler.NewMetrics(registry)

	rec := reconciler.New(clusterClient, reconciler.Options{
		Concurrency:  operatorCfg.Reconciler.Concurrency,
		RecordEvents: operatorCfg.Reconciler.RecordEvents,
		Metrics:      metrics,
	})

	interval := config.NewIntervalCell(operatorCfg.CheckInterval.Std())
	sched := scheduler.New(rec, interval)

	services := &Services{
		Client:     clusterClient,
		Registry:   registry,
		Metrics:    metrics,
		Reconciler: rec,
		Interval:   interval,
		Scheduler:  sched,
	}

	switch {
	case !cfg.WatchConfig:
	case cfg.Overrides.CheckInterval != 0:
		logging.Warn("Services", "--check-interval is set, config.yaml changes will not update the interval")
	default:
		services.Watcher = config.NewWatcher(cfg.ConfigPath, config.DefaultDebounceInterval, func(c config.OperatorConfig) {
			if interval.Set(c.CheckInterval.Std()) {
				logging.Info("Services", "Check interval reloaded: %s", c.CheckInterval)
			}
		})
	}

	if addr := operatorCfg.Metrics.BindAddress; addr != "" {
		services.MetricsServer = server.NewMetricsServer(addr, registry, schedulerHealth(sched))
	}

	return services, nil
}

// schedulerHealth reports the last pass of sched and fails once its loop has
// stopped.
func schedulerHealth(sched *scheduler.Scheduler) server.HealthFunc {
	return func() (*server.PassInfo, error) {
		var last *server.PassInfo
		if passes := sched.Passes(); passes > 0 {
			summary := sched.LastSummary()
			last = &server.PassInfo{
				ID:        summary.PassID,
				StartedAt: summary.StartedAt,
				Failures:  len(summary.Failures),
				Passes:    passes,
			}
		}

		if sched.State() == scheduler.StateStopped {
			if err := sched.Err(); err != nil {
				return last, err
			}
			return last, errors.New("reconciliation loop stopped")
		}
		return last, nil
	}
}

// Shutdown stops the watcher and the metrics server. Only the first call has
// an effect.
func (s *Services) Shutdown() {
	s.shutdownOnce.Do(func() {
		logging.Info("Services", "Shutting down")

		if s.Watcher != nil {
			if err := s.Watcher.Stop(); err != nil {
				logging.Warn("Services", "Failed to stop config watcher: %v", err)
			}
		}

		if s.MetricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			if err := s.MetricsServer.Shutdown(ctx); err != nil {
				logging.Warn("Services", "Failed to shut down metrics server: %v", err)
			}
		}
	})
}
