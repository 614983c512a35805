package app

import (
	"time"

	"dotnetes/internal/client"
	"dotnetes/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Silent discards all log output
	Silent bool

	// Directory containing config.yaml
	ConfigPath string

	// WatchConfig reloads checkInterval from config.yaml while running
	WatchConfig bool

	// Command-line overrides, applied on top of config.yaml
	Overrides Overrides

	// Operator configuration. Loaded from ConfigPath when nil.
	OperatorConfig *config.OperatorConfig

	// ClusterClient replaces the client built from the Kubernetes settings.
	ClusterClient client.ClusterClient
}

// Overrides are command-line values that take precedence over config.yaml.
// Zero values leave the file's setting in place.
type Overrides struct {
	ClusterAuthentication string
	ConfigFilePath        string
	CheckInterval         time.Duration
	MetricsBindAddress    string
	Concurrency           int
	RecordEvents          bool
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}

// apply merges the overrides into cfg.
func (o Overrides) apply(cfg *config.OperatorConfig) {
	if o.ClusterAuthentication != "" {
		cfg.Kubernetes.ClusterAuthentication = config.ClusterAuthenticationMode(o.ClusterAuthentication)
	}
	if o.ConfigFilePath != "" {
		cfg.Kubernetes.ConfigFilePath = o.ConfigFilePath
	}
	if o.CheckInterval != 0 {
		cfg.CheckInterval = config.Duration(o.CheckInterval)
	}
	if o.MetricsBindAddress != "" {
		cfg.Metrics.BindAddress = o.MetricsBindAddress
	}
	if o.Concurrency != 0 {
		cfg.Reconciler.Concurrency = o.Concurrency
	}
	if o.RecordEvents {
		cfg.Reconciler.RecordEvents = true
	}
}
