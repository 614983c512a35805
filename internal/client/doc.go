// Package client provides the operator's access to the Kubernetes API.
//
// ClusterClient is the narrow surface the reconciler needs: list namespaces,
// list DotNetApps in a namespace, and get or create the Deployment and
// Service derived from each app. The Kubernetes implementation sits on top of
// a controller-runtime client.Client built with a scheme that knows both the
// built-in types and the dotnetes.dot.net/v1alpha1 types.
//
// # Authentication
//
// NewRestConfig builds the rest.Config for one of two modes:
//
//   - InCluster: the pod's service account token and CA certificate.
//   - LocalConfigFile: a kubeconfig file, either the configured path or the
//     standard loading rules (KUBECONFIG, ~/.kube/config).
//
// # Error Handling
//
// Get operations return the API error wrapped with %w, so callers detect a
// missing object with apierrors.IsNotFound:
//
//	deployment, err := c.GetDeployment(ctx, "sample-d6s", "default")
//	if apierrors.IsNotFound(err) {
//	    // create it
//	}
//
// # Testing
//
// NewClusterClientFromClient wraps any client.Client, which lets tests use
// controller-runtime's fake client built with NewScheme.
package client
