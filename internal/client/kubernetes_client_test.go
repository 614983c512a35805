package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	dotnetesv1alpha1 "dotnetes/pkg/apis/dotnetes/v1alpha1"
)

func newTestApp(name, namespace string) *dotnetesv1alpha1.DotNetApp {
	return &dotnetesv1alpha1.DotNetApp{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: dotnetesv1alpha1.DotNetAppSpec{
			Image:    "registry.local/" + name + ":1.0",
			Replicas: ptr.To[int32](1),
		},
	}
}

func newTestNamespace(name string) *corev1.Namespace {
	return &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
}

func TestListNamespaces(t *testing.T) {
	c := fake.NewClientBuilder().
		WithScheme(NewScheme()).
		WithObjects(newTestNamespace("default"), newTestNamespace("team-a")).
		Build()

	namespaces, err := NewClusterClientFromClient(c).ListNamespaces(context.Background())
	require.NoError(t, err)

	var names []string
	for _, ns := range namespaces {
		names = append(names, ns.Name)
	}
	assert.ElementsMatch(t, []string{"default", "team-a"}, names)
}

func TestListApplications_ScopedToNamespace(t *testing.T) {
	c := fake.NewClientBuilder().
		WithScheme(NewScheme()).
		WithObjects(
			newTestApp("sample", "default"),
			newTestApp("other", "default"),
			newTestApp("elsewhere", "team-a"),
		).
		Build()

	apps, err := NewClusterClientFromClient(c).ListApplications(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	for _, app := range apps {
		assert.Equal(t, "default", app.Namespace)
	}
}

func TestListApplications_ErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	c := fake.NewClientBuilder().
		WithScheme(NewScheme()).
		WithInterceptorFuncs(interceptor.Funcs{
			List: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) error {
				return boom
			},
		}).
		Build()

	_, err := NewClusterClientFromClient(c).ListApplications(context.Background(), "default")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "dotnetapps")
}

func TestGetDeployment_NotFound(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(NewScheme()).Build()

	_, err := NewClusterClientFromClient(c).GetDeployment(context.Background(), "sample-d6s", "default")
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err), "wrapped error should still be NotFound: %v", err)
}

func TestCreateThenGetWorkloads(t *testing.T) {
	ctx := context.Background()
	cc := NewClusterClientFromClient(fake.NewClientBuilder().WithScheme(NewScheme()).Build())

	deployment := &appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: "sample-d6s", Namespace: "default"}}
	service := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "sample-d6s", Namespace: "default"}}

	require.NoError(t, cc.CreateDeployment(ctx, deployment))
	require.NoError(t, cc.CreateService(ctx, service))

	gotDeployment, err := cc.GetDeployment(ctx, "sample-d6s", "default")
	require.NoError(t, err)
	assert.Equal(t, "sample-d6s", gotDeployment.Name)

	gotService, err := cc.GetService(ctx, "sample-d6s", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", gotService.Namespace)

	err = cc.CreateService(ctx, &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "sample-d6s", Namespace: "default"}})
	require.Error(t, err)
	assert.True(t, apierrors.IsAlreadyExists(err))
}

func TestGetService_OtherErrorIsNotNotFound(t *testing.T) {
	c := fake.NewClientBuilder().
		WithScheme(NewScheme()).
		WithInterceptorFuncs(interceptor.Funcs{
			Get: func(ctx context.Context, c client.WithWatch, key client.ObjectKey, obj client.Object, opts ...client.GetOption) error {
				return apierrors.NewForbidden(corev1.Resource("services"), key.Name, errors.New("rbac"))
			},
		}).
		Build()

	_, err := NewClusterClientFromClient(c).GetService(context.Background(), "sample-d6s", "default")
	require.Error(t, err)
	assert.False(t, apierrors.IsNotFound(err))
	assert.True(t, apierrors.IsForbidden(err))
}

func TestRecordEvent(t *testing.T) {
	ctx := context.Background()
	app := newTestApp("sample", "default")
	c := fake.NewClientBuilder().WithScheme(NewScheme()).WithObjects(app).Build()

	err := NewClusterClientFromClient(c).RecordEvent(ctx, app, "DeploymentCreated", "Created Deployment sample-d6s", corev1.EventTypeNormal)
	require.NoError(t, err)

	events := &corev1.EventList{}
	require.NoError(t, c.List(ctx, events, client.InNamespace("default")))
	require.Len(t, events.Items, 1)

	event := events.Items[0]
	assert.Equal(t, "DeploymentCreated", event.Reason)
	assert.Equal(t, dotnetesv1alpha1.DotNetAppKind, event.InvolvedObject.Kind)
	assert.Equal(t, dotnetesv1alpha1.GroupVersion.String(), event.InvolvedObject.APIVersion)
	assert.Equal(t, EventSourceComponent, event.Source.Component)
}
