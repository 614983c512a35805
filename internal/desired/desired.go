package desired

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	dotnetesv1alpha1 "dotnetes/pkg/apis/dotnetes/v1alpha1"
)

const (
	// LabelManaged marks every object created by the operator.
	LabelManaged = "dotnetes/dotnetes"

	// LabelApp carries the name of the owning DotNetApp.
	LabelApp = "dotnetes/app"

	// ManagedValue is the value of LabelManaged.
	ManagedValue = "1"

	resourceSuffix  = "-d6s"
	containerSuffix = "-app"

	// ServicePort is the single port exposed by derived Services.
	ServicePort int32 = 80
)

// ResourceName returns the name shared by the Deployment and the Service.
func ResourceName(app *dotnetesv1alpha1.DotNetApp) string {
	return app.Name + resourceSuffix
}

// ContainerName returns the name of the single application container.
func ContainerName(app *dotnetesv1alpha1.DotNetApp) string {
	return app.Name + containerSuffix
}

// Labels returns a fresh label set for the app's workload objects.
func Labels(app *dotnetesv1alpha1.DotNetApp) map[string]string {
	return map[string]string{
		LabelManaged: ManagedValue,
		LabelApp:     app.Name,
	}
}

// Derive maps a DotNetApp to the Deployment and Service that implement it.
func Derive(app *dotnetesv1alpha1.DotNetApp) (*appsv1.Deployment, *corev1.Service) {
	return Deployment(app), Service(app)
}

// Deployment builds the desired Deployment for app.
func Deployment(app *dotnetesv1alpha1.DotNetApp) *appsv1.Deployment {
	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: appsv1.SchemeGroupVersion.String(),
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      ResourceName(app),
			Namespace: app.Namespace,
			Labels:    Labels(app),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: replicas(app),
			Selector: &metav1.LabelSelector{MatchLabels: Labels(app)},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: Labels(app)},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  ContainerName(app),
							Image: app.Spec.Image,
						},
					},
				},
			},
		},
	}
}

// replicas copies spec.replicas. Nil leaves the Deployment default in place.
func replicas(app *dotnetesv1alpha1.DotNetApp) *int32 {
	if app.Spec.Replicas == nil {
		return nil
	}
	return ptr.To(*app.Spec.Replicas)
}

// Service builds the desired ClusterIP Service for app.
func Service(app *dotnetesv1alpha1.DotNetApp) *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: corev1.SchemeGroupVersion.String(),
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      ResourceName(app),
			Namespace: app.Namespace,
			Labels:    Labels(app),
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: Labels(app),
			Ports: []corev1.ServicePort{
				{
					Port:     ServicePort,
					Protocol: corev1.ProtocolTCP,
				},
			},
		},
	}
}
