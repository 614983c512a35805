// Package reconciler converges the cluster towards the workloads declared by
// DotNetApp resources.
//
// A pass lists every namespace, lists the DotNetApps in each, derives the
// Deployment and Service every app should have, and creates the ones that are
// missing. Convergence is create-only: objects that already exist are left
// untouched even when they differ from the derived ones, and nothing is ever
// deleted.
//
// # Failure Isolation
//
//   - A namespace whose apps cannot be listed is skipped; the pass continues.
//   - A Deployment that cannot be read or created does not prevent the Service
//     step for the same app, and neither affects other apps.
//   - Only failing to list namespaces aborts the pass. ReconcileAll then
//     returns an error wrapping ErrClusterUnreachable.
//
// There are no internal retries: the next scheduled pass is the retry.
//
// # Observability
//
// Every pass has a UUID that prefixes its log lines and is returned on the
// PassSummary, together with the objects it created and the failures it
// isolated. Metrics exposes the same information as Prometheus collectors.
package reconciler
