package config

import (
	"fmt"
	"strings"
)

// Error types reported in ConfigurationError.ErrorType.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

// ConfigurationError represents a structured error that occurs while loading
// or validating operator configuration. It is fatal at startup.
type ConfigurationError struct {
	FilePath    string   `json:"filePath,omitempty"` // File that caused the error (empty for flag values)
	Field       string   `json:"field,omitempty"`    // Offending field, dotted path
	ErrorType   string   `json:"errorType"`          // io, parse or validation
	Message     string   `json:"message"`            // Human-readable error message
	Details     string   `json:"details,omitempty"`  // Additional details about the error
	Suggestions []string `json:"suggestions,omitempty"`

	cause error
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if ce.FilePath != "" {
		fmt.Fprintf(&b, " in %s", ce.FilePath)
	}
	if ce.Field != "" {
		fmt.Fprintf(&b, " (%s)", ce.Field)
	}
	fmt.Fprintf(&b, ": %s", ce.Message)
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (ce *ConfigurationError) Unwrap() error {
	return ce.cause
}

// DetailedError returns a detailed error message with all context
func (ce *ConfigurationError) DetailedError() string {
	var parts []string

	parts = append(parts, "Configuration Error")
	if ce.FilePath != "" {
		parts = append(parts, fmt.Sprintf("  File: %s", ce.FilePath))
	}
	if ce.Field != "" {
		parts = append(parts, fmt.Sprintf("  Field: %s", ce.Field))
	}
	parts = append(parts, fmt.Sprintf("  Type: %s", ce.ErrorType))
	parts = append(parts, fmt.Sprintf("  Error: %s", ce.Message))

	if ce.Details != "" {
		parts = append(parts, fmt.Sprintf("  Details: %s", ce.Details))
	}

	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

// NewConfigurationError creates a new configuration error wrapping cause.
func NewConfigurationError(filePath, field, errorType, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		FilePath:  filePath,
		Field:     field,
		ErrorType: errorType,
		Message:   message,
		cause:     cause,
	}
}

// WithSuggestions attaches fix suggestions and returns the receiver.
func (ce *ConfigurationError) WithSuggestions(suggestions ...string) *ConfigurationError {
	ce.Suggestions = append(ce.Suggestions, suggestions...)
	return ce
}
