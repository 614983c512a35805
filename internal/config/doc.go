// Package config provides configuration management for the dotnetes operator.
//
// Configuration is loaded from a single directory containing config.yaml.
// A missing file is not an error: the operator runs on defaults. Command-line
// flags are applied on top of the loaded file by the cmd package.
//
// # File Format
//
//	checkInterval: 1s
//	kubernetes:
//	  clusterAuthentication: InCluster   # or LocalConfigFile
//	  configFilePath: ""                 # kubeconfig path for LocalConfigFile
//	  requestTimeout: 30s
//	reconciler:
//	  concurrency: 1
//	  recordEvents: false
//	metrics:
//	  bindAddress: ""                    # e.g. ":8080"; empty disables the server
//	logging:
//	  level: info
//	  format: text
//
// # Hot Reload
//
// checkInterval may be changed while the operator runs. IntervalCell holds
// the live value and Watcher re-reads config.yaml on change and pushes the new
// interval into the cell. Every other setting is read once at startup.
//
// # Errors
//
// Loading and validation failures are reported as ConfigurationError, which
// names the file, the failing field and suggestions for fixing it.
package config
