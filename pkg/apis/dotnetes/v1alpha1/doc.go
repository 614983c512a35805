// Package v1alpha1 contains API Schema definitions for the dotnetes v1alpha1 API group.
//
// # API Group: dotnetes.dot.net/v1alpha1
//
// ## DotNetApp
//
// DotNetApp declares a containerized application by image and replica count.
// The operator derives a Deployment and a Service named "<name>-d6s" for each
// DotNetApp and creates them when they are missing.
//
// Example:
//
//	apiVersion: dotnetes.dot.net/v1alpha1
//	kind: DotNetApp
//	metadata:
//	  name: sample
//	  namespace: default
//	spec:
//	  image: registry/sample:v1
//	  replicas: 2
//
// +kubebuilder:object:generate=true
// +groupName=dotnetes.dot.net
package v1alpha1
