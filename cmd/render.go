package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"dotnetes/internal/desired"
	dotnetesv1alpha1 "dotnetes/pkg/apis/dotnetes/v1alpha1"
)

var (
	renderName      string
	renderNamespace string
	renderImage     string
	renderReplicas  int32
)

// renderCmd prints the objects the operator would create for a DotNetApp.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the Deployment and Service derived from a DotNetApp",
	Long: `Prints, as YAML, the Deployment and Service the operator creates for a
DotNetApp with the given name, namespace, image and replica count. Nothing is
sent to the cluster.

Example:
  dotnetes render --name sample --image registry.local/sample:1.0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var replicas *int32
		if cmd.Flags().Changed("replicas") {
			replicas = &renderReplicas
		}
		return renderApplication(cmd.OutOrStdout(), renderName, renderNamespace, renderImage, replicas)
	},
}

// renderApplication writes the derived objects as a multi-document YAML stream.
// A nil replicas leaves spec.replicas unset, as in a DotNetApp that omits it.
func renderApplication(out io.Writer, name, namespace, image string, replicas *int32) error {
	if name == "" {
		return fmt.Errorf("--name is required")
	}
	if image == "" {
		return fmt.Errorf("--image is required")
	}
	if replicas != nil && *replicas < 0 {
		return fmt.Errorf("--replicas must not be negative, got %d", *replicas)
	}

	app := &dotnetesv1alpha1.DotNetApp{
		TypeMeta: metav1.TypeMeta{
			APIVersion: dotnetesv1alpha1.GroupVersion.String(),
			Kind:       dotnetesv1alpha1.DotNetAppKind,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Spec: dotnetesv1alpha1.DotNetAppSpec{
			Image:    image,
			Replicas: replicas,
		},
	}

	deployment, service := desired.Derive(app)
	for i, obj := range []interface{}{deployment, service} {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to marshal object: %w", err)
		}
		if i > 0 {
			if _, err := fmt.Fprintln(out, "---"); err != nil {
				return err
			}
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderName, "name", "", "DotNetApp name")
	renderCmd.Flags().StringVar(&renderNamespace, "namespace", "default", "DotNetApp namespace")
	renderCmd.Flags().StringVar(&renderImage, "image", "", "Container image")
	renderCmd.Flags().Int32Var(&renderReplicas, "replicas", 0, "Replica count (unset leaves the cluster default)")
}
