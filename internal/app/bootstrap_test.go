package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	"dotnetes/internal/client"
	"dotnetes/internal/config"
	"dotnetes/internal/reconciler"
	"dotnetes/internal/scheduler"
	dotnetesv1alpha1 "dotnetes/pkg/apis/dotnetes/v1alpha1"
)

func newFakeClusterClient(funcs interceptor.Funcs, objs ...ctrlclient.Object) client.ClusterClient {
	c := fake.NewClientBuilder().
		WithScheme(client.NewScheme()).
		WithObjects(objs...).
		WithInterceptorFuncs(funcs).
		Build()
	return client.NewClusterClientFromClient(c)
}

func sampleObjects() []ctrlclient.Object {
	return []ctrlclient.Object{
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
		&dotnetesv1alpha1.DotNetApp{
			ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
			Spec:       dotnetesv1alpha1.DotNetAppSpec{Image: "registry.local/sample:1.0"},
		},
	}
}

func newTestConfig(t *testing.T, cc client.ClusterClient) *Config {
	t.Helper()
	cfg := NewConfig(false, t.TempDir())
	cfg.Silent = true
	cfg.ClusterClient = cc
	return cfg
}

func runInBackground(t *testing.T, application *Application) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- application.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, result
}

func waitResult(t *testing.T, result <-chan error) error {
	t.Helper()
	select {
	case err := <-result:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestNewApplication_MissingConfigUsesDefaults(t *testing.T) {
	application, err := NewApplication(newTestConfig(t, newFakeClusterClient(interceptor.Funcs{})))
	require.NoError(t, err)

	services := application.Services()
	assert.Equal(t, config.DefaultCheckInterval, services.Interval.Get())
	assert.Nil(t, services.Watcher)
	assert.Nil(t, services.MetricsServer)
	assert.Equal(t, scheduler.StateIdle, services.Scheduler.State())
}

func TestNewApplication_LoadsConfigAndAppliesOverrides(t *testing.T) {
	cfg := newTestConfig(t, newFakeClusterClient(interceptor.Funcs{}))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ConfigPath, "config.yaml"), []byte(`
checkInterval: 2s
reconciler:
  concurrency: 2
metrics:
  bindAddress: "127.0.0.1:0"
`), 0644))
	cfg.Overrides.Concurrency = 4

	application, err := NewApplication(cfg)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, application.Services().Interval.Get())
	assert.Equal(t, 4, cfg.OperatorConfig.Reconciler.Concurrency)
	assert.NotNil(t, application.Services().MetricsServer)
}

func TestNewApplication_UnknownAuthMode(t *testing.T) {
	cfg := NewConfig(false, t.TempDir())
	cfg.Silent = true
	cfg.Overrides.ClusterAuthentication = "Token"

	_, err := NewApplication(cfg)
	require.Error(t, err)

	var ce *config.ConfigurationError
	assert.True(t, errors.As(err, &ce), "expected ConfigurationError, got %T: %v", err, err)
}

func TestNewApplication_MalformedConfig(t *testing.T) {
	cfg := newTestConfig(t, newFakeClusterClient(interceptor.Funcs{}))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ConfigPath, "config.yaml"), []byte("checkInterval: [\n"), 0644))

	_, err := NewApplication(cfg)
	require.Error(t, err)

	var ce *config.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}

func TestNewApplication_InClusterOutsideCluster(t *testing.T) {
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	t.Setenv("KUBERNETES_SERVICE_PORT", "")

	cfg := NewConfig(false, t.TempDir())
	cfg.Silent = true

	_, err := NewApplication(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InCluster")
}

func TestRun_ReconcilesAndStopsOnCancel(t *testing.T) {
	cc := newFakeClusterClient(interceptor.Funcs{}, sampleObjects()...)
	application, err := NewApplication(newTestConfig(t, cc))
	require.NoError(t, err)

	cancel, result := runInBackground(t, application)

	require.Eventually(t, func() bool {
		_, err := cc.GetService(context.Background(), "sample-d6s", "default")
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, waitResult(t, result))
	assert.Equal(t, scheduler.StateStopped, application.Services().Scheduler.State())
}

func TestRun_FatalLoopErrorShutsDown(t *testing.T) {
	funcs := interceptor.Funcs{
		List: func(ctx context.Context, c ctrlclient.WithWatch, list ctrlclient.ObjectList, opts ...ctrlclient.ListOption) error {
			if _, ok := list.(*corev1.NamespaceList); ok {
				return errors.New("connection refused")
			}
			return c.List(ctx, list, opts...)
		},
	}
	cfg := newTestConfig(t, newFakeClusterClient(funcs))
	cfg.Overrides.MetricsBindAddress = "127.0.0.1:0"

	application, err := NewApplication(cfg)
	require.NoError(t, err)

	_, result := runInBackground(t, application)
	err = waitResult(t, result)

	var fatal *scheduler.FatalLoopError
	require.True(t, errors.As(err, &fatal))
	assert.ErrorIs(t, err, reconciler.ErrClusterUnreachable)

	addr := application.Services().MetricsServer.Addr()
	_, err = http.Get("http://" + addr + "/healthz")
	assert.Error(t, err, "metrics server should be shut down")
}

func TestRun_HealthzReportsLastPass(t *testing.T) {
	cfg := newTestConfig(t, newFakeClusterClient(interceptor.Funcs{}, sampleObjects()...))
	cfg.Overrides.MetricsBindAddress = "127.0.0.1:0"

	application, err := NewApplication(cfg)
	require.NoError(t, err)

	cancel, result := runInBackground(t, application)

	sched := application.Services().Scheduler
	require.Eventually(t, func() bool { return sched.Passes() >= 1 }, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + application.Services().MetricsServer.Addr() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status   string `json:"status"`
		LastPass struct {
			ID       string `json:"id"`
			Failures int    `json:"failures"`
			Passes   int64  `json:"passes"`
		} `json:"lastPass"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.LastPass.ID)
	assert.Zero(t, body.LastPass.Failures)
	assert.GreaterOrEqual(t, body.LastPass.Passes, int64(1))

	cancel()
	assert.NoError(t, waitResult(t, result))
}

func TestRun_HotReloadUpdatesInterval(t *testing.T) {
	cfg := newTestConfig(t, newFakeClusterClient(interceptor.Funcs{}, sampleObjects()...))
	cfg.WatchConfig = true
	configFile := filepath.Join(cfg.ConfigPath, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("checkInterval: 1h\n"), 0644))

	application, err := NewApplication(cfg)
	require.NoError(t, err)
	require.NotNil(t, application.Services().Watcher)

	cancel, result := runInBackground(t, application)

	sched := application.Services().Scheduler
	require.Eventually(t, func() bool { return sched.Passes() >= 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(configFile, []byte("checkInterval: 20ms\n"), 0644))

	require.Eventually(t, func() bool {
		return application.Services().Interval.Get() == 20*time.Millisecond && sched.Passes() >= 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, waitResult(t, result))
}

func TestInitializeServices_CheckIntervalOverrideDisablesWatcher(t *testing.T) {
	cfg := newTestConfig(t, newFakeClusterClient(interceptor.Funcs{}))
	cfg.WatchConfig = true
	cfg.Overrides.CheckInterval = 3 * time.Second

	application, err := NewApplication(cfg)
	require.NoError(t, err)
	assert.Nil(t, application.Services().Watcher)
	assert.Equal(t, 3*time.Second, application.Services().Interval.Get())
}

func TestServices_ShutdownIsIdempotent(t *testing.T) {
	cfg := newTestConfig(t, newFakeClusterClient(interceptor.Funcs{}))
	cfg.WatchConfig = true
	cfg.Overrides.MetricsBindAddress = "127.0.0.1:0"

	application, err := NewApplication(cfg)
	require.NoError(t, err)

	services := application.Services()
	require.NoError(t, services.MetricsServer.Start(context.Background()))
	require.NoError(t, services.Watcher.Start(context.Background()))

	services.Shutdown()
	services.Shutdown()
}
