package env

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

func TestLoadProfile(t *testing.T) {
	t.Parallel()

	t.Run("missing file is not an error", func(t *testing.T) {
		t.Parallel()
		p, err := LoadProfile(filepath.Join(t.TempDir(), "env.conf"))
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "env.conf")
		require.NoError(t, (&Profile{Board: "rpi-2", OS: "archlinux"}).Save(path))

		p, err := LoadProfile(path)
		require.NoError(t, err)
		assert.Equal(t, &Profile{Board: "rpi-2", OS: "archlinux"}, p)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "OS=archlinux\nBOARD=rpi-2\n", string(data))
	})

	t.Run("incomplete profile is an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "env.conf")
		require.NoError(t, os.WriteFile(path, []byte("OS=archlinux\n"), 0o644))

		_, err := LoadProfile(path)
		assert.Error(t, err)
	})
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()

	_, err := reg.Board("rpi-2")
	assert.NoError(t, err)

	_, err = reg.Board("toaster")
	assert.ErrorContains(t, err, "unsupported board")

	_, err = reg.OS("archlinux")
	assert.NoError(t, err)

	_, err = reg.OS("beos")
	assert.ErrorContains(t, err, "unsupported os")

	assert.Contains(t, reg.BoardNames(), "banana-pro")
	assert.Contains(t, reg.OSNames(), "hypriotos")
}

func TestRegistryValidate(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()

	assert.NoError(t, reg.Validate(&Profile{Board: "rpi", OS: "hypriotos"}))
	assert.Error(t, reg.Validate(&Profile{Board: "rpi", OS: "beos"}))
	assert.Error(t, reg.Validate(&Profile{Board: "toaster", OS: "archlinux"}))
}

func TestHooksRun(t *testing.T) {
	t.Parallel()

	t.Run("nil hook is a no-op", func(t *testing.T) {
		t.Parallel()
		fake := &runner.Fake{}
		require.NoError(t, Hooks{}.Run(context.Background(), "pre-install", fake))
		assert.Empty(t, fake.Commands)
	})

	t.Run("defined hook runs", func(t *testing.T) {
		t.Parallel()
		fake := &runner.Fake{}
		h := Hooks{PostInstall: enableDockerService}
		require.NoError(t, h.Run(context.Background(), "post-install", fake))
		require.Len(t, fake.Commands, 1)
		assert.Equal(t, "systemctl", fake.Commands[0].Name)
	})

	t.Run("unknown slot", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, Hooks{}.Run(context.Background(), "mid-install", &runner.Fake{}))
	})
}

func TestEnsureBootParams(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		cmdline     string
		want        string
		wantChanged bool
	}{
		{
			name:        "all params missing",
			cmdline:     "console=serial0,115200 root=/dev/mmcblk0p2\n",
			want:        "console=serial0,115200 root=/dev/mmcblk0p2 cgroup_enable=cpuset cgroup_enable=memory cgroup_memory=1\n",
			wantChanged: true,
		},
		{
			name:        "already present",
			cmdline:     "root=/dev/mmcblk0p2 cgroup_enable=cpuset cgroup_enable=memory cgroup_memory=1\n",
			want:        "root=/dev/mmcblk0p2 cgroup_enable=cpuset cgroup_enable=memory cgroup_memory=1\n",
			wantChanged: false,
		},
		{
			name:        "partially present",
			cmdline:     "root=/dev/mmcblk0p2 cgroup_enable=memory",
			want:        "root=/dev/mmcblk0p2 cgroup_enable=memory cgroup_enable=cpuset cgroup_memory=1",
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, changed := ensureBootParams(tt.cmdline, cgroupParams)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestResolve(t *testing.T) {
	reg := NewRegistry()

	t.Run("explicit values win and are persisted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "env.conf")

		p, err := Resolve(context.Background(), reg, path, "rpi-2", "archlinux")
		require.NoError(t, err)
		assert.Equal(t, &Profile{Board: "rpi-2", OS: "archlinux"}, p)

		persisted, err := LoadProfile(path)
		require.NoError(t, err)
		assert.Equal(t, p, persisted)
	})

	t.Run("persisted profile reused silently", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "env.conf")
		require.NoError(t, (&Profile{Board: "rpi", OS: "hypriotos"}).Save(path))

		p, err := Resolve(context.Background(), reg, path, "", "")
		require.NoError(t, err)
		assert.Equal(t, &Profile{Board: "rpi", OS: "hypriotos"}, p)
	})

	t.Run("invalid board is fatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "env.conf")

		_, err := Resolve(context.Background(), reg, path, "toaster", "archlinux")
		require.ErrorContains(t, err, "unsupported board")

		// Nothing must be persisted on validation failure.
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("non-interactive without profile fails", func(t *testing.T) {
		orig := isInteractive
		isInteractive = func() bool { return false }
		defer func() { isInteractive = orig }()

		_, err := Resolve(context.Background(), reg, filepath.Join(t.TempDir(), "env.conf"), "", "")
		assert.ErrorContains(t, err, "not running on a terminal")
	})

	t.Run("prompt used when interactive", func(t *testing.T) {
		origTTY, origPrompt := isInteractive, promptProfile
		isInteractive = func() bool { return true }
		promptProfile = func(context.Context, *Registry) (*Profile, error) {
			return &Profile{Board: "cubietruck", OS: "debian"}, nil
		}
		defer func() { isInteractive, promptProfile = origTTY, origPrompt }()

		path := filepath.Join(t.TempDir(), "env.conf")
		p, err := Resolve(context.Background(), reg, path, "", "")
		require.NoError(t, err)
		assert.Equal(t, "cubietruck", p.Board)

		persisted, err := LoadProfile(path)
		require.NoError(t, err)
		assert.Equal(t, p, persisted)
	})
}
