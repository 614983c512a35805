package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"dotnetes/internal/config"
	"dotnetes/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs the operator.
//
// Example usage:
//
//	cfg := app.NewConfig(false, "/etc/dotnetes")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication creates and initializes a new application instance with the provided configuration.
// This function performs the complete bootstrap sequence:
//
//  1. Configures logging based on debug settings
//  2. Loads config.yaml and applies command-line overrides
//  3. Builds the cluster client for the selected authentication mode
//  4. Wires reconciler, scheduler, config watcher and metrics server
//
// Any failure here, including an unknown authentication mode, is returned
// before the reconciliation loop starts.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	if cfg.OperatorConfig == nil {
		operatorCfg, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load configuration from path %s: %w", cfg.ConfigPath, err)
		}
		cfg.OperatorConfig = &operatorCfg
	}

	cfg.Overrides.apply(cfg.OperatorConfig)
	if err := cfg.OperatorConfig.Validate(); err != nil {
		ce := config.NewConfigurationError("", "", config.ErrorTypeValidation, err.Error(), err)
		logging.Error("Bootstrap", ce, "Invalid configuration")
		return nil, ce
	}

	// Re-initialize with the configured level and format. --debug wins.
	level, _ := logging.ParseLevel(cfg.OperatorConfig.Logging.Level)
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(level, logging.Format(cfg.OperatorConfig.Logging.Format), logOutput)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Run executes the application
//
// It blocks until SIGINT, SIGTERM or cancellation of ctx, or until the
// reconciliation loop stops on its own. Either way shutdown runs exactly once
// and the loop's fatal error, if any, is returned.
func (a *Application) Run(ctx context.Context) error {
	return runOperator(ctx, a.services)
}

// Services returns the wired components.
func (a *Application) Services() *Services {
	return a.services
}
