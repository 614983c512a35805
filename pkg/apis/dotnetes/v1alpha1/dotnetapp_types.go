package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DotNetAppSpec defines the desired state of DotNetApp
type DotNetAppSpec struct {
	// Image is the container image reference the application runs.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	Image string `json:"image" yaml:"image"`

	// Replicas is the desired number of pods. When unset the Deployment is
	// created without a replica count and the cluster default applies.
	// +optional
	// +kubebuilder:validation:Minimum=0
	Replicas *int32 `json:"replicas,omitempty" yaml:"replicas,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:shortName=dna
// +kubebuilder:printcolumn:name="Image",type="string",JSONPath=".spec.image"
// +kubebuilder:printcolumn:name="Replicas",type="integer",JSONPath=".spec.replicas"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// DotNetApp is the Schema for the dotnetapps API
type DotNetApp struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec DotNetAppSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// DotNetAppList contains a list of DotNetApp
type DotNetAppList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DotNetApp `json:"items"`
}

func init() {
	SchemeBuilder.Register(&DotNetApp{}, &DotNetAppList{})
}
