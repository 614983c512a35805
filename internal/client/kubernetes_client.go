package client

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"

	dotnetesv1alpha1 "dotnetes/pkg/apis/dotnetes/v1alpha1"
)

// EventSourceComponent is the source component recorded on Kubernetes Events.
const EventSourceComponent = "dotnetes"

// ClusterClient is the set of cluster operations the reconciler performs.
type ClusterClient interface {
	ListNamespaces(ctx context.Context) ([]corev1.Namespace, error)
	ListApplications(ctx context.Context, namespace string) ([]dotnetesv1alpha1.DotNetApp, error)

	// GetDeployment returns an error satisfying apierrors.IsNotFound when the
	// Deployment does not exist.
	GetDeployment(ctx context.Context, name, namespace string) (*appsv1.Deployment, error)
	CreateDeployment(ctx context.Context, deployment *appsv1.Deployment) error

	// GetService returns an error satisfying apierrors.IsNotFound when the
	// Service does not exist.
	GetService(ctx context.Context, name, namespace string) (*corev1.Service, error)
	CreateService(ctx context.Context, service *corev1.Service) error

	// RecordEvent creates a Kubernetes Event about obj.
	RecordEvent(ctx context.Context, obj client.Object, reason, message, eventType string) error
}

// NewScheme returns a scheme with the built-in Kubernetes types and the
// dotnetes CRD types registered.
func NewScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(dotnetesv1alpha1.AddToScheme(scheme))
	return scheme
}

// kubernetesClient implements ClusterClient using controller-runtime.
type kubernetesClient struct {
	client client.Client
	scheme *runtime.Scheme
}

// NewClusterClient creates a ClusterClient talking to the API server
// described by config.
func NewClusterClient(config *rest.Config) (ClusterClient, error) {
	scheme := NewScheme()

	k8sClient, err := client.New(config, client.Options{
		Scheme: scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	return &kubernetesClient{
		client: k8sClient,
		scheme: scheme,
	}, nil
}

// NewClusterClientFromClient wraps an existing controller-runtime client.
// The client's scheme must include the dotnetes types.
func NewClusterClientFromClient(c client.Client) ClusterClient {
	return &kubernetesClient{
		client: c,
		scheme: c.Scheme(),
	}
}

// ListNamespaces lists every namespace in the cluster.
func (k *kubernetesClient) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	namespaceList := &corev1.NamespaceList{}
	if err := k.client.List(ctx, namespaceList); err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	return namespaceList.Items, nil
}

// ListApplications lists the DotNetApps in one namespace.
func (k *kubernetesClient) ListApplications(ctx context.Context, namespace string) ([]dotnetesv1alpha1.DotNetApp, error) {
	appList := &dotnetesv1alpha1.DotNetAppList{}
	listOptions := &client.ListOptions{
		Namespace: namespace,
	}

	if err := k.client.List(ctx, appList, listOptions); err != nil {
		return nil, fmt.Errorf("failed to list %s in namespace %s: %w", dotnetesv1alpha1.DotNetAppPlural, namespace, err)
	}

	return appList.Items, nil
}

// GetDeployment retrieves a Deployment by name.
func (k *kubernetesClient) GetDeployment(ctx context.Context, name, namespace string) (*appsv1.Deployment, error) {
	deployment := &appsv1.Deployment{}
	key := types.NamespacedName{
		Name:      name,
		Namespace: namespace,
	}

	if err := k.client.Get(ctx, key, deployment); err != nil {
		return nil, fmt.Errorf("failed to get Deployment %s/%s: %w", namespace, name, err)
	}

	return deployment, nil
}

// CreateDeployment creates a Deployment in its own namespace.
func (k *kubernetesClient) CreateDeployment(ctx context.Context, deployment *appsv1.Deployment) error {
	if err := k.client.Create(ctx, deployment); err != nil {
		return fmt.Errorf("failed to create Deployment %s/%s: %w", deployment.Namespace, deployment.Name, err)
	}
	return nil
}

// GetService retrieves a Service by name.
func (k *kubernetesClient) GetService(ctx context.Context, name, namespace string) (*corev1.Service, error) {
	service := &corev1.Service{}
	key := types.NamespacedName{
		Name:      name,
		Namespace: namespace,
	}

	if err := k.client.Get(ctx, key, service); err != nil {
		return nil, fmt.Errorf("failed to get Service %s/%s: %w", namespace, name, err)
	}

	return service, nil
}

// CreateService creates a Service in its own namespace.
func (k *kubernetesClient) CreateService(ctx context.Context, service *corev1.Service) error {
	if err := k.client.Create(ctx, service); err != nil {
		return fmt.Errorf("failed to create Service %s/%s: %w", service.Namespace, service.Name, err)
	}
	return nil
}

// RecordEvent creates a Kubernetes Event attached to obj.
func (k *kubernetesClient) RecordEvent(ctx context.Context, obj client.Object, reason, message, eventType string) error {
	gvk, err := apiutil.GVKForObject(obj, k.scheme)
	if err != nil {
		return fmt.Errorf("failed to get GVK for object: %w", err)
	}

	now := metav1.NewTime(time.Now())
	event := &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: obj.GetName() + "-",
			Namespace:    obj.GetNamespace(),
		},
		InvolvedObject: corev1.ObjectReference{
			APIVersion: gvk.GroupVersion().String(),
			Kind:       gvk.Kind,
			Name:       obj.GetName(),
			Namespace:  obj.GetNamespace(),
			UID:        obj.GetUID(),
		},
		Reason:         reason,
		Message:        message,
		Type:           eventType,
		Source:         corev1.EventSource{Component: EventSourceComponent},
		FirstTimestamp: now,
		LastTimestamp:  now,
		Count:          1,
	}

	if err := k.client.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create Kubernetes Event for %s %s/%s: %w", gvk.Kind, obj.GetNamespace(), obj.GetName(), err)
	}

	return nil
}
