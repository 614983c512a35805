package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"dotnetes/internal/config"
	"dotnetes/internal/scheduler"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfigError indicates the configuration could not be loaded or is invalid.
	ExitCodeConfigError = 2
	// ExitCodeLoopFailed indicates the reconciliation loop stopped on a fatal error.
	ExitCodeLoopFailed = 3
)

// rootCmd represents the base command for the dotnetes application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dotnetes",
	Short: "Run .NET applications on Kubernetes from DotNetApp resources",
	Long: `dotnetes is a Kubernetes operator that watches DotNetApp resources
(dotnetapps.dotnetes.dot.net) in every namespace and creates the Deployment
and Service each of them needs.

Reconciliation is poll-based and create-only: missing objects are created,
existing ones are never modified or deleted.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "dotnetes version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var configErr *config.ConfigurationError
	if errors.As(err, &configErr) {
		return ExitCodeConfigError
	}

	var fatal *scheduler.FatalLoopError
	if errors.As(err, &fatal) {
		return ExitCodeLoopFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
