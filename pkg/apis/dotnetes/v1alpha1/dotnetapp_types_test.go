package v1alpha1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"
)

func TestAddToScheme(t *testing.T) {
	scheme := runtime.NewScheme()
	require.NoError(t, AddToScheme(scheme))

	gvks, _, err := scheme.ObjectKinds(&DotNetApp{})
	require.NoError(t, err)
	require.Len(t, gvks, 1)
	assert.Equal(t, "dotnetes.dot.net", gvks[0].Group)
	assert.Equal(t, "v1alpha1", gvks[0].Version)
	assert.Equal(t, DotNetAppKind, gvks[0].Kind)

	assert.True(t, scheme.Recognizes(GroupVersion.WithKind("DotNetAppList")))
}

func TestDotNetAppDecodesManifest(t *testing.T) {
	manifest := []byte(`
apiVersion: dotnetes.dot.net/v1alpha1
kind: DotNetApp
metadata:
  name: sample
  namespace: default
spec:
  image: registry/sample:v1
  replicas: 2
`)

	var app DotNetApp
	require.NoError(t, yaml.Unmarshal(manifest, &app))

	assert.Equal(t, "sample", app.Name)
	assert.Equal(t, "default", app.Namespace)
	assert.Equal(t, "registry/sample:v1", app.Spec.Image)
	require.NotNil(t, app.Spec.Replicas)
	assert.Equal(t, int32(2), *app.Spec.Replicas)
}

func TestDotNetAppDecodesManifestWithoutReplicas(t *testing.T) {
	manifest := []byte(`
apiVersion: dotnetes.dot.net/v1alpha1
kind: DotNetApp
metadata:
  name: sample
spec:
  image: nginx
`)

	var app DotNetApp
	require.NoError(t, yaml.Unmarshal(manifest, &app))
	assert.Nil(t, app.Spec.Replicas)
}

func TestDotNetAppDeepCopy(t *testing.T) {
	original := &DotNetAppList{
		Items: []DotNetApp{{
			ObjectMeta: metav1.ObjectMeta{Name: "a", Labels: map[string]string{"k": "v"}},
			Spec:       DotNetAppSpec{Image: "img", Replicas: ptr.To[int32](1)},
		}},
	}

	copied := original.DeepCopy()
	copied.Items[0].Labels["k"] = "changed"
	copied.Items[0].Spec.Image = "other"
	*copied.Items[0].Spec.Replicas = 5

	assert.Equal(t, "v", original.Items[0].Labels["k"])
	assert.Equal(t, "img", original.Items[0].Spec.Image)
	assert.Equal(t, int32(1), *original.Items[0].Spec.Replicas)
}

func TestResource(t *testing.T) {
	assert.Equal(t, "dotnetapps.dotnetes.dot.net", Resource(DotNetAppPlural).String())
}
