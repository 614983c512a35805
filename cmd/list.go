package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"dotnetes/internal/client"
	"dotnetes/internal/config"
	"dotnetes/internal/desired"
	dotnetesv1alpha1 "dotnetes/pkg/apis/dotnetes/v1alpha1"
	"dotnetes/pkg/logging"
)

var (
	listConfigPath  string
	listClusterAuth string
	listKubeconfig  string
	listNamespace   string
	listNoColor     bool
)

// listCmd shows every DotNetApp and whether its workloads exist.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List DotNetApps and the state of their Deployment and Service",
	Long: `Lists the DotNetApps in all namespaces (or one, with --namespace) together
with whether the Deployment and Service derived from each already exist.

Cluster access uses the same configuration as 'dotnetes run'. The
--cluster-auth and --kubeconfig flags override config.yaml when given.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	logging.InitForCLI(logging.LevelWarn, os.Stderr)

	cfg, err := config.LoadConfig(listConfigPath)
	if err != nil {
		return err
	}

	restConfig, err := client.NewRestConfig(listKubernetesConfig(cfg.Kubernetes, listClusterAuth, listKubeconfig))
	if err != nil {
		return err
	}
	cc, err := client.NewClusterClient(restConfig)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return listApplications(ctx, cc, listNamespace, cmd.OutOrStdout(), !listNoColor)
}

// listApplications renders one row per DotNetApp. An empty namespace means
// all namespaces.
func listApplications(ctx context.Context, cc client.ClusterClient, namespace string, out io.Writer, color bool) error {
	var namespaces []string
	if namespace != "" {
		namespaces = []string{namespace}
	} else {
		items, err := cc.ListNamespaces(ctx)
		if err != nil {
			return err
		}
		for _, ns := range items {
			namespaces = append(namespaces, ns.Name)
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"NAMESPACE", "NAME", "IMAGE", "REPLICAS", "DEPLOYMENT", "SERVICE"})

	rows := 0
	for _, ns := range namespaces {
		apps, err := cc.ListApplications(ctx, ns)
		if err != nil {
			logging.Warn("List", "Skipping namespace %s: %v", ns, err)
			continue
		}
		for i := range apps {
			app := &apps[i]
			name := desired.ResourceName(app)

			_, deploymentErr := cc.GetDeployment(ctx, name, app.Namespace)
			_, serviceErr := cc.GetService(ctx, name, app.Namespace)

			t.AppendRow(table.Row{
				app.Namespace,
				app.Name,
				app.Spec.Image,
				replicaCount(app),
				presence(deploymentErr, color),
				presence(serviceErr, color),
			})
			rows++
		}
	}

	if rows == 0 {
		_, err := fmt.Fprintln(out, "No DotNetApps found.")
		return err
	}

	t.Render()
	return nil
}

// listKubernetesConfig applies the non-empty flag values on top of the loaded
// kubernetes section.
func listKubernetesConfig(k config.KubernetesConfig, clusterAuth, kubeconfig string) config.KubernetesConfig {
	if clusterAuth != "" {
		k.ClusterAuthentication = config.ClusterAuthenticationMode(clusterAuth)
	}
	if kubeconfig != "" {
		k.ConfigFilePath = kubeconfig
	}
	return k
}

// replicaCount renders spec.replicas, or "-" when the cluster default applies.
func replicaCount(app *dotnetesv1alpha1.DotNetApp) string {
	if app.Spec.Replicas == nil {
		return "-"
	}
	return strconv.Itoa(int(*app.Spec.Replicas))
}

// presence describes the result of a Get: present, missing, or unknown.
func presence(err error, color bool) string {
	var label string
	var colors text.Colors
	switch {
	case err == nil:
		label, colors = "present", text.Colors{text.FgGreen}
	case apierrors.IsNotFound(err):
		label, colors = "missing", text.Colors{text.FgYellow}
	default:
		label, colors = "unknown", text.Colors{text.FgRed}
	}
	if !color {
		return label
	}
	return colors.Sprint(label)
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listConfigPath, "config-path", config.GetDefaultConfigPath(), "Directory containing config.yaml")
	listCmd.Flags().StringVar(&listClusterAuth, "cluster-auth", "", "Cluster authentication mode: InCluster or LocalConfigFile (default from config.yaml)")
	listCmd.Flags().StringVar(&listKubeconfig, "kubeconfig", "", "Path to the kubeconfig file")
	listCmd.Flags().StringVarP(&listNamespace, "namespace", "n", "", "Only list this namespace")
	listCmd.Flags().BoolVar(&listNoColor, "no-color", false, "Disable colored output")
}
