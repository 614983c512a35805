package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"dotnetes/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/dotnetes"
	configFileName = "config.yaml"
)

// GetDefaultConfigPath returns the per-user config directory, or the
// current directory when the home directory cannot be determined.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(homeDir, userConfigDir)
}

// ConfigFilePath returns the path of config.yaml inside configPath.
func ConfigFilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads config.yaml from the specified directory on top of the
// defaults. A missing file yields the defaults.
func LoadConfig(configPath string) (OperatorConfig, error) {
	configFilePath := ConfigFilePath(configPath)

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return GetDefaultConfig(), nil
		}
		return OperatorConfig{}, NewConfigurationError(configFilePath, "", ErrorTypeIO,
			fmt.Sprintf("failed to read config file: %v", err), err)
	}

	cfg, err := ParseConfig(data, configFilePath)
	if err != nil {
		return OperatorConfig{}, err
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return cfg, nil
}

// ParseConfig decodes data onto the defaults and validates the result.
// filePath is only used for error reporting.
func ParseConfig(data []byte, filePath string) (OperatorConfig, error) {
	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		ce := NewConfigurationError(filePath, "", ErrorTypeParse,
			fmt.Sprintf("malformed YAML: %v", err), err)
		ce.Details = offendingLine(data, err)
		return OperatorConfig{}, ce
	}

	if err := cfg.Validate(); err != nil {
		ce := NewConfigurationError(filePath, "", ErrorTypeValidation, err.Error(), err)
		var verrs ValidationErrors
		if errors.As(err, &verrs) && len(verrs) == 1 {
			ce.Field = verrs[0].Field
			ce.Message = verrs[0].Message
		}
		return OperatorConfig{}, ce
	}
	return cfg, nil
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// offendingLine quotes the source line a decode error points at, or returns
// "" when the error carries no line number.
func offendingLine(data []byte, err error) string {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil || n < 1 {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	if n > len(lines) || strings.TrimSpace(lines[n-1]) == "" {
		return fmt.Sprintf("line %d", n)
	}
	return fmt.Sprintf("line %d: %s", n, strings.TrimSpace(lines[n-1]))
}
