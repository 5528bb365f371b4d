package cluster

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

func newTestController(t *testing.T, storeContent string) (*Controller, *runner.Fake, *config.Store) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "k8s.conf")
	require.NoError(t, os.WriteFile(path, []byte(storeContent), 0o644))
	store := config.NewStore(path)

	fake := &runner.Fake{}
	c := NewController(fake, store, config.DefaultVersions(), "/tmp/kube-deploy")
	return c, fake, store
}

func passProbe(context.Context, *http.Client, string) error { return nil }

func failProbe(context.Context, *http.Client, string) error { return ErrMasterNotFound }

func TestEnableMaster(t *testing.T) {
	t.Parallel()
	c, fake, _ := newTestController(t, "")

	require.NoError(t, c.EnableMaster(context.Background()))

	require.Len(t, fake.Commands, 1)
	cmd := fake.Commands[0]
	assert.Equal(t, "./master.sh", cmd.Name)
	assert.Equal(t, "/tmp/kube-deploy", cmd.Dir)
	assert.Contains(t, cmd.Env, "K8S_VERSION="+config.DefaultVersions().Kubernetes)
}

func TestEnableWorkerExplicitIP(t *testing.T) {
	t.Parallel()
	c, fake, store := newTestController(t, "")
	c.probe = passProbe

	require.NoError(t, c.EnableWorker(context.Background(), "192.168.0.100"))

	// Address persisted for later invocations.
	ip, err := store.Get(config.KeyMasterIP)
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.100", ip)

	require.Len(t, fake.Commands, 1)
	cmd := fake.Commands[0]
	assert.Equal(t, "./worker.sh", cmd.Name)
	assert.Contains(t, cmd.Env, "K8S_MASTER_IP=192.168.0.100")
}

func TestEnableWorkerFallsBackToStoredIP(t *testing.T) {
	t.Parallel()
	c, fake, _ := newTestController(t, "K8S_MASTER_IP=10.0.0.1\n")
	c.probe = passProbe

	require.NoError(t, c.EnableWorker(context.Background(), ""))

	require.Len(t, fake.Commands, 1)
	assert.Contains(t, fake.Commands[0].Env, "K8S_MASTER_IP=10.0.0.1")
}

func TestEnableWorkerNoIPAnywhere(t *testing.T) {
	t.Parallel()
	c, fake, _ := newTestController(t, "")
	c.probe = passProbe

	err := c.EnableWorker(context.Background(), "")
	require.ErrorContains(t, err, "no master address")
	assert.Empty(t, fake.Commands)
}

func TestEnableWorkerProbeFailureAbortsBeforeJoin(t *testing.T) {
	t.Parallel()
	c, fake, store := newTestController(t, "")
	c.probe = failProbe

	err := c.EnableWorker(context.Background(), "192.168.0.100")
	require.ErrorIs(t, err, ErrMasterNotFound)

	// The worker script must not run, but the address is still recorded.
	assert.Empty(t, fake.Commands)
	ip, getErr := store.Get(config.KeyMasterIP)
	require.NoError(t, getErr)
	assert.Equal(t, "192.168.0.100", ip)
}

func TestDisableRunsTurndownUnconditionally(t *testing.T) {
	t.Parallel()
	c, fake, _ := newTestController(t, "")

	require.NoError(t, c.Disable(context.Background()))

	require.Len(t, fake.Commands, 1)
	assert.Equal(t, "./turndown.sh", fake.Commands[0].Name)
}
