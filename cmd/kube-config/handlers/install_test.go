package handlers

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/env"
	"github.com/gardleopard/kubernetes-on-arm/internal/install"
	"github.com/gardleopard/kubernetes-on-arm/internal/node"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

func TestInstallOptionsApplyEnv(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("BOARD", "rpi-2")
	v.Set("OS", "archlinux")
	v.Set("SWAP", "0")

	opts := InstallOptions{OS: "debian"}
	opts.ApplyEnv(v)

	assert.Equal(t, "rpi-2", opts.Board)
	assert.Equal(t, "debian", opts.OS, "flag value wins over the environment")
	assert.Equal(t, "0", opts.Swap)
	assert.Empty(t, opts.Hostname)
}

func TestParseSwitch(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		value string
		want  *bool
		err   bool
	}{
		{value: "", want: nil},
		{value: "1", want: boolPtr(true)},
		{value: "yes", want: boolPtr(true)},
		{value: "0", want: boolPtr(false)},
		{value: "false", want: boolPtr(false)},
		{value: "maybe", err: true},
	} {
		got, err := parseSwitch("swap", tt.value)
		if tt.err {
			require.Error(t, err, tt.value)
			continue
		}
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got, tt.value)
	}
}

func TestInstallWiresResolvedProfile(t *testing.T) {
	swapFactories(t, &node.FakeInspector{Fixed: node.RoleNone})

	origResolve := resolveProfile
	origInstaller := newInstaller
	t.Cleanup(func() {
		resolveProfile = origResolve
		newInstaller = origInstaller
	})

	resolveProfile = func(_ context.Context, _ *env.Registry, board, osName string) (*env.Profile, error) {
		assert.Equal(t, "rpi-2", board)
		assert.Equal(t, "archlinux", osName)
		return &env.Profile{Board: board, OS: osName}, nil
	}

	var gotOpts install.Options
	var gotProfile *env.Profile
	mock := &installerMock{}
	newInstaller = func(_ runner.Runner, profile *env.Profile, _ *env.Registry, _ config.Versions, opts install.Options) nodeInstaller {
		gotProfile = profile
		gotOpts = opts
		return mock
	}

	err := Install(context.Background(), InstallOptions{
		Board: "rpi-2", OS: "archlinux",
		Hostname: "node1", Swap: "0", Reboot: "0",
	})
	require.NoError(t, err)
	assert.True(t, mock.ran)

	require.NotNil(t, gotProfile)
	assert.Equal(t, "rpi-2", gotProfile.Board)
	assert.Equal(t, "node1", gotOpts.Hostname)
	require.NotNil(t, gotOpts.Swap)
	assert.False(t, *gotOpts.Swap)
	require.NotNil(t, gotOpts.Reboot)
	assert.False(t, *gotOpts.Reboot)
}

func TestInstallRejectsBadSwitch(t *testing.T) {
	swapFactories(t, &node.FakeInspector{Fixed: node.RoleNone})

	origResolve := resolveProfile
	t.Cleanup(func() { resolveProfile = origResolve })
	resolveProfile = func(_ context.Context, _ *env.Registry, board, osName string) (*env.Profile, error) {
		return &env.Profile{Board: "rpi-2", OS: "archlinux"}, nil
	}

	err := Install(context.Background(), InstallOptions{Swap: "maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swap")
}

type installerMock struct {
	ran bool
}

func (m *installerMock) Run(context.Context) error {
	m.ran = true
	return nil
}

func boolPtr(v bool) *bool { return &v }
