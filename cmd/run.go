package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dotnetes/internal/app"
	"dotnetes/internal/config"
)

// runDebug enables verbose logging across the application.
var runDebug bool

// runConfigPath is the directory containing config.yaml.
var runConfigPath string

// runWatchConfig reloads checkInterval from config.yaml while running.
var runWatchConfig bool

// Command-line overrides for values in config.yaml.
var (
	runClusterAuth        string
	runKubeconfig         string
	runCheckInterval      time.Duration
	runMetricsBindAddress string
	runConcurrency        int
	runRecordEvents       bool
)

// runCmd starts the operator.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the dotnetes operator",
	Long: `Starts the reconciliation loop. Every check interval the operator lists all
namespaces and DotNetApps and creates any missing Deployment or Service.

Configuration:
  Settings are read from config.yaml in --config-path (default ~/.config/dotnetes).
  A missing file means defaults. Flags override the file.

  checkInterval: 1s
  kubernetes:
    clusterAuthentication: InCluster   # or LocalConfigFile
    configFilePath: ""
    requestTimeout: 30s
  reconciler:
    concurrency: 1
    recordEvents: false
  metrics:
    bindAddress: ""

Changes to checkInterval in config.yaml apply without a restart unless
--watch-config=false is given or --check-interval pins the interval.

The process exits when the reconciliation loop stops on a fatal error, such
as the cluster becoming unreachable.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

// runRun is the main entry point for the run command
func runRun(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(runDebug, runConfigPath)
	cfg.WatchConfig = runWatchConfig
	cfg.Overrides = app.Overrides{
		ClusterAuthentication: runClusterAuth,
		ConfigFilePath:        runKubeconfig,
		CheckInterval:         runCheckInterval,
		MetricsBindAddress:    runMetricsBindAddress,
		Concurrency:           runConcurrency,
		RecordEvents:          runRecordEvents,
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runDebug, "debug", false, "Enable debug logging")
	runCmd.Flags().StringVar(&runConfigPath, "config-path", config.GetDefaultConfigPath(), "Directory containing config.yaml")
	runCmd.Flags().BoolVar(&runWatchConfig, "watch-config", true, "Reload checkInterval when config.yaml changes")
	runCmd.Flags().StringVar(&runClusterAuth, "cluster-auth", "", "Cluster authentication mode: InCluster or LocalConfigFile")
	runCmd.Flags().StringVar(&runKubeconfig, "kubeconfig", "", "Path to the kubeconfig file used with LocalConfigFile")
	runCmd.Flags().DurationVar(&runCheckInterval, "check-interval", 0, "Pause between reconciliation passes (e.g. 1s, 500ms)")
	runCmd.Flags().StringVar(&runMetricsBindAddress, "metrics-bind-address", "", "Address for /metrics and /healthz (e.g. :8080); empty disables")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "Namespaces reconciled in parallel")
	runCmd.Flags().BoolVar(&runRecordEvents, "record-events", false, "Attach Kubernetes Events to DotNetApps on create")
}
