package client

import (
	"fmt"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"dotnetes/internal/config"
)

// NewRestConfig builds the API server connection settings for the
// configured authentication mode. An unknown mode is a
// *config.ConfigurationError.
func NewRestConfig(cfg config.KubernetesConfig) (*rest.Config, error) {
	mode, err := config.ParseClusterAuthenticationMode(string(cfg.ClusterAuthentication))
	if err != nil {
		return nil, err
	}

	var restConfig *rest.Config
	switch mode {
	case config.AuthInCluster:
		restConfig, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load in-cluster config: %w", err)
		}
	case config.AuthLocalConfigFile:
		restConfig, err = kubeconfigRestConfig(cfg.ConfigFilePath)
		if err != nil {
			return nil, err
		}
	}

	if cfg.RequestTimeout > 0 {
		restConfig.Timeout = cfg.RequestTimeout.Std()
	}
	restConfig.UserAgent = rest.DefaultKubernetesUserAgent() + " " + EventSourceComponent
	return restConfig, nil
}

// kubeconfigRestConfig loads a kubeconfig file. An empty path falls back to
// the standard loading rules.
func kubeconfigRestConfig(path string) (*rest.Config, error) {
	if path != "" {
		restConfig, err := clientcmd.BuildConfigFromFlags("", path)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig %s: %w", path, err)
		}
		return restConfig, nil
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{})
	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig from default locations: %w", err)
	}
	return restConfig, nil
}
