package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// OperatorConfig is the top-level configuration structure for the operator.
type OperatorConfig struct {
	// CheckInterval is the pause between two reconciliation passes.
	CheckInterval Duration `yaml:"checkInterval,omitempty"`

	Kubernetes KubernetesConfig `yaml:"kubernetes,omitempty"`
	Reconciler ReconcilerConfig `yaml:"reconciler,omitempty"`
	Metrics    MetricsConfig    `yaml:"metrics,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// ClusterAuthenticationMode selects how the operator authenticates against the cluster.
type ClusterAuthenticationMode string

const (
	// AuthInCluster uses the pod's service account token and CA certificate.
	AuthInCluster ClusterAuthenticationMode = "InCluster"

	// AuthLocalConfigFile uses a kubeconfig file.
	AuthLocalConfigFile ClusterAuthenticationMode = "LocalConfigFile"
)

// KubernetesConfig defines how the cluster client is constructed.
type KubernetesConfig struct {
	ClusterAuthentication ClusterAuthenticationMode `yaml:"clusterAuthentication,omitempty"`
	ConfigFilePath        string                    `yaml:"configFilePath,omitempty"` // kubeconfig path; empty uses default loading rules
	RequestTimeout        Duration                  `yaml:"requestTimeout,omitempty"` // upper bound for a single API request
}

// ReconcilerConfig tunes the reconciliation pass.
type ReconcilerConfig struct {
	Concurrency  int  `yaml:"concurrency,omitempty"`  // namespaces reconciled in parallel (default: 1)
	RecordEvents bool `yaml:"recordEvents,omitempty"` // attach Kubernetes Events to DotNetApps on create
}

// MetricsConfig defines the Prometheus and health endpoint.
type MetricsConfig struct {
	BindAddress string `yaml:"bindAddress,omitempty"` // empty disables the server
}

// LoggingConfig defines log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Duration is a time.Duration that reads and writes Go duration strings ("1s", "500ms") in YAML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: duration must be a string such as \"1s\": %w", value.Line, err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
