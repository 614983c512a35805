package config

import "time"

const (
	// DefaultCheckInterval is the reconciliation interval used when none is configured.
	DefaultCheckInterval = time.Second

	// DefaultRequestTimeout bounds every cluster API request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultConcurrency reconciles namespaces sequentially.
	DefaultConcurrency = 1
)

// GetDefaultConfig returns the configuration the operator uses without a config file.
func GetDefaultConfig() OperatorConfig {
	return OperatorConfig{
		CheckInterval: Duration(DefaultCheckInterval),
		Kubernetes: KubernetesConfig{
			ClusterAuthentication: AuthInCluster,
			RequestTimeout:        Duration(DefaultRequestTimeout),
		},
		Reconciler: ReconcilerConfig{
			Concurrency: DefaultConcurrency,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
