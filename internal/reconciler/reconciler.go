package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"dotnetes/internal/client"
	"dotnetes/internal/desired"
	dotnetesv1alpha1 "dotnetes/pkg/apis/dotnetes/v1alpha1"
	"dotnetes/pkg/logging"
)

// ErrClusterUnreachable is returned by ReconcileAll when the namespace list
// cannot be read. Nothing can be reconciled without it.
var ErrClusterUnreachable = errors.New("cluster unreachable")

// Event reasons recorded on DotNetApps when event recording is enabled.
const (
	ReasonDeploymentCreated = "DeploymentCreated"
	ReasonServiceCreated    = "ServiceCreated"
	ReasonCreateFailed      = "CreateFailed"
)

// Options tunes a Reconciler.
type Options struct {
	// Concurrency is the number of namespaces reconciled in parallel.
	// Values below 1 mean sequential.
	Concurrency int

	// RecordEvents attaches a Kubernetes Event to the DotNetApp for every
	// create and every failed create.
	RecordEvents bool

	// Metrics receives pass and failure counters. Nil uses unregistered
	// collectors.
	Metrics *Metrics
}

// Reconciler performs create-only reconciliation passes: every DotNetApp gets
// the Deployment and Service derived from it if they do not exist yet.
// Existing objects are never updated and orphans are never deleted.
type Reconciler struct {
	client  client.ClusterClient
	options Options
	metrics *Metrics
}

// New creates a Reconciler.
func New(c client.ClusterClient, options Options) *Reconciler {
	if options.Concurrency < 1 {
		options.Concurrency = 1
	}
	metrics := options.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Reconciler{
		client:  c,
		options: options,
		metrics: metrics,
	}
}

// ReconcileAll runs one pass over every namespace. Failures inside a
// namespace or for a single app are logged, recorded on the summary and
// isolated. Only a failure to list namespaces is returned, wrapping
// ErrClusterUnreachable.
func (r *Reconciler) ReconcileAll(ctx context.Context) (PassSummary, error) {
	start := time.Now()
	rec := &passRecorder{summary: PassSummary{
		PassID:    uuid.NewString(),
		StartedAt: start,
	}}
	passID := rec.summary.PassID
	r.metrics.passStarted(start)

	logging.Debug("Reconciler", "Pass %s starting", passID)

	namespaces, err := r.client.ListNamespaces(ctx)
	if err != nil {
		summary := rec.finish(start)
		r.metrics.passFinished(start, 0, false)
		logging.Error("Reconciler", err, "Pass %s failed to list namespaces", passID)
		return summary, fmt.Errorf("%w: %w", ErrClusterUnreachable, err)
	}
	rec.summary.Namespaces = len(namespaces)

	g := new(errgroup.Group)
	g.SetLimit(r.options.Concurrency)
	for i := range namespaces {
		if ctx.Err() != nil {
			break
		}
		namespace := namespaces[i].Name
		g.Go(func() error {
			r.reconcileNamespace(ctx, passID, namespace, rec)
			return nil
		})
	}
	_ = g.Wait()

	summary := rec.finish(start)
	r.metrics.passFinished(start, summary.Applications, !summary.Failed())
	r.logSummary(summary)
	return summary, nil
}

func (r *Reconciler) reconcileNamespace(ctx context.Context, passID, namespace string, rec *passRecorder) {
	apps, err := r.client.ListApplications(ctx, namespace)
	if err != nil {
		rec.skipNamespace()
		rec.failed(Failure{Namespace: namespace, Kind: KindApplication, Stage: StageList, Err: err})
		r.metrics.failed(KindApplication, StageList)
		logging.Error("Reconciler", err, "Pass %s skipping namespace %s", passID, namespace)
		return
	}
	rec.addApplications(len(apps))

	for i := range apps {
		if ctx.Err() != nil {
			return
		}
		r.reconcileApplication(ctx, passID, &apps[i], rec)
	}
}

// workload is one derived object together with the calls that read and
// create it.
type workload struct {
	kind   string
	object ctrlclient.Object
	reason string
	get    func(ctx context.Context) error
	create func(ctx context.Context) error
}

func (r *Reconciler) reconcileApplication(ctx context.Context, passID string, app *dotnetesv1alpha1.DotNetApp, rec *passRecorder) {
	deployment, service := desired.Derive(app)

	workloads := []workload{
		{
			kind:   KindDeployment,
			object: deployment,
			reason: ReasonDeploymentCreated,
			get: func(ctx context.Context) error {
				_, err := r.client.GetDeployment(ctx, deployment.Name, deployment.Namespace)
				return err
			},
			create: func(ctx context.Context) error {
				return r.client.CreateDeployment(ctx, deployment)
			},
		},
		{
			kind:   KindService,
			object: service,
			reason: ReasonServiceCreated,
			get: func(ctx context.Context) error {
				_, err := r.client.GetService(ctx, service.Name, service.Namespace)
				return err
			},
			create: func(ctx context.Context) error {
				return r.client.CreateService(ctx, service)
			},
		},
	}

	// Each workload is independent: a failure on one never skips the next.
	for _, w := range workloads {
		r.ensure(ctx, passID, app, w, rec)
	}
}

// ensure creates w if it does not exist. Existing objects are left as they are.
func (r *Reconciler) ensure(ctx context.Context, passID string, app *dotnetesv1alpha1.DotNetApp, w workload, rec *passRecorder) {
	namespace, name := w.object.GetNamespace(), w.object.GetName()

	err := w.get(ctx)
	if err == nil {
		logging.Debug("Reconciler", "Pass %s: %s %s/%s exists", passID, w.kind, namespace, name)
		return
	}
	if !apierrors.IsNotFound(err) {
		r.fail(passID, app, w.kind, StageGet, err, rec)
		return
	}

	if err := w.create(ctx); err != nil {
		r.fail(passID, app, w.kind, StageCreate, err, rec)
		r.recordEvent(ctx, app, ReasonCreateFailed, fmt.Sprintf("Failed to create %s %s: %v", w.kind, name, err), corev1.EventTypeWarning)
		return
	}

	rec.created(w.kind, namespace, name)
	r.metrics.created(w.kind)
	logging.Info("Reconciler", "Pass %s created %s %s/%s", passID, w.kind, namespace, name)
	r.recordEvent(ctx, app, w.reason, fmt.Sprintf("Created %s %s", w.kind, name), corev1.EventTypeNormal)
}

func (r *Reconciler) fail(passID string, app *dotnetesv1alpha1.DotNetApp, kind, stage string, err error, rec *passRecorder) {
	rec.failed(Failure{
		Namespace:   app.Namespace,
		Application: app.Name,
		Kind:        kind,
		Stage:       stage,
		Err:         err,
	})
	r.metrics.failed(kind, stage)
	logging.Error("Reconciler", err, "Pass %s failed to %s %s for %s/%s", passID, stage, kind, app.Namespace, app.Name)
}

func (r *Reconciler) recordEvent(ctx context.Context, app *dotnetesv1alpha1.DotNetApp, reason, message, eventType string) {
	if !r.options.RecordEvents {
		return
	}
	if err := r.client.RecordEvent(ctx, app, reason, message, eventType); err != nil {
		logging.Debug("Reconciler", "Failed to record %s event for %s/%s: %v", reason, app.Namespace, app.Name, err)
	}
}

func (r *Reconciler) logSummary(s PassSummary) {
	if s.Created() == 0 && !s.Failed() {
		logging.Debug("Reconciler", "Pass %s finished in %s: %d namespaces, %d apps, nothing to do",
			s.PassID, s.Duration, s.Namespaces, s.Applications)
		return
	}
	logging.Info("Reconciler", "Pass %s finished in %s: %d namespaces (%d skipped), %d apps, %d deployments and %d services created, %d failures",
		s.PassID, s.Duration, s.Namespaces, s.SkippedNamespaces, s.Applications,
		len(s.CreatedDeployments), len(s.CreatedServices), len(s.Failures))
}
