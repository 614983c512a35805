package config

import (
	"fmt"
	"strings"

	"dotnetes/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ParseClusterAuthenticationMode resolves a mode name. Unknown names are a
// ConfigurationError.
func ParseClusterAuthenticationMode(name string) (ClusterAuthenticationMode, error) {
	switch ClusterAuthenticationMode(name) {
	case AuthInCluster, AuthLocalConfigFile:
		return ClusterAuthenticationMode(name), nil
	default:
		return "", NewConfigurationError("", "kubernetes.clusterAuthentication", ErrorTypeValidation,
			fmt.Sprintf("unknown cluster authentication mode %q", name), nil).
			WithSuggestions(fmt.Sprintf("use %q or %q", AuthInCluster, AuthLocalConfigFile))
	}
}

// Validate checks a fully merged configuration.
func (c OperatorConfig) Validate() error {
	var errs ValidationErrors

	if c.CheckInterval <= 0 {
		errs.Add("checkInterval", "must be a positive duration", c.CheckInterval.String())
	}
	if _, err := ParseClusterAuthenticationMode(string(c.Kubernetes.ClusterAuthentication)); err != nil {
		errs.Add("kubernetes.clusterAuthentication",
			fmt.Sprintf("must be %q or %q", AuthInCluster, AuthLocalConfigFile), c.Kubernetes.ClusterAuthentication)
	}
	if c.Kubernetes.RequestTimeout < 0 {
		errs.Add("kubernetes.requestTimeout", "must not be negative", c.Kubernetes.RequestTimeout.String())
	}
	if c.Reconciler.Concurrency < 1 {
		errs.Add("reconciler.concurrency", "must be at least 1", c.Reconciler.Concurrency)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", "must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch logging.Format(c.Logging.Format) {
	case logging.FormatText, logging.FormatJSON, "":
	default:
		errs.Add("logging.format", "must be text or json", c.Logging.Format)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
