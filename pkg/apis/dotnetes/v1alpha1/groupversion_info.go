package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

const (
	// Group is the API group of the dotnetes custom resources.
	Group = "dotnetes.dot.net"

	// Version is the served API version.
	Version = "v1alpha1"

	// DotNetAppPlural is the resource name used in REST paths.
	DotNetAppPlural = "dotnetapps"

	// DotNetAppKind is the kind of the DotNetApp resource.
	DotNetAppKind = "DotNetApp"
)

var (
	// GroupVersion is group version used to register these objects.
	GroupVersion = schema.GroupVersion{Group: Group, Version: Version}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme.
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the types in this group-version to the given scheme.
	AddToScheme = SchemeBuilder.AddToScheme
)

// Resource returns the GroupResource for the given unqualified resource name.
func Resource(resource string) schema.GroupResource {
	return GroupVersion.WithResource(resource).GroupResource()
}
