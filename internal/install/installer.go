// Package install prepares a single-board computer as a cluster node:
// container runtime via the machine profile's hooks, the kube-deploy
// project at a pinned revision, the kubectl and helm binaries, and the
// local OS configuration (hostname, timezone, storage driver, swap).
//
// The run is strictly sequential and not resumable: the first failing
// stage aborts the whole command and the operator re-invokes it. The
// individual configuration steps are idempotent, so re-running is cheap.
package install

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/gardleopard/kubernetes-on-arm/internal/addons"
	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/env"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// Paths collects every filesystem location the installer touches, so tests
// can point the whole run at a scratch directory.
type Paths struct {
	StoreFile   string
	AddonDir    string
	SourceDir   string
	BinDir      string
	SwapFile    string
	Fstab       string
	DockerUnit  string
	ZoneinfoDir string
	Localtime   string
}

// DefaultPaths returns the production locations.
func DefaultPaths() Paths {
	return Paths{
		StoreFile:   config.StoreFile,
		AddonDir:    config.AddonDir,
		SourceDir:   config.SourceDir,
		BinDir:      config.BinDir,
		SwapFile:    config.SwapFile,
		Fstab:       "/etc/fstab",
		DockerUnit:  "/usr/lib/systemd/system/docker.service",
		ZoneinfoDir: "/usr/share/zoneinfo",
		Localtime:   "/etc/localtime",
	}
}

// Options are the pre-settable knobs of an install run. Empty or nil
// values mean "ask when interactive, skip otherwise".
type Options struct {
	Hostname      string
	Timezone      string
	StorageDriver string
	Swap          *bool
	Reboot        *bool
}

// Installer performs the one-shot node preparation.
type Installer struct {
	runner   runner.Runner
	profile  *env.Profile
	registry *env.Registry
	versions config.Versions
	paths    Paths
	opts     Options
	client   *http.Client

	// Resolved once at the start of Run; the stages read the hooks from
	// here instead of re-looking them up.
	osEntry    env.Entry
	boardEntry env.Entry
}

// New assembles an installer for the resolved machine profile.
func New(r runner.Runner, profile *env.Profile, reg *env.Registry, versions config.Versions, paths Paths, opts Options) *Installer {
	return &Installer{
		runner:   r,
		profile:  profile,
		registry: reg,
		versions: versions,
		paths:    paths,
		opts:     opts,
		client:   http.DefaultClient,
	}
}

// Run executes every stage in order. Stages are not individually
// resumable; the returned error names the stage that failed.
func (i *Installer) Run(ctx context.Context) error {
	var err error
	if i.osEntry, err = i.registry.OS(i.profile.OS); err != nil {
		return err
	}
	if i.boardEntry, err = i.registry.Board(i.profile.Board); err != nil {
		return err
	}

	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"prepare-runtime", i.prepareRuntime},
		{"fetch-kube-deploy", i.fetchKubeDeploy},
		{"fetch-binaries", i.fetchBinaries},
		{"configure", i.configure},
	}

	for _, stage := range stages {
		log.Infof("stage %s", stage.name)
		if err := stage.fn(ctx); err != nil {
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}

	return i.maybeReboot(ctx)
}

// prepareRuntime runs the pre-install hooks of the OS and board, in that
// order. The hooks install the container runtime and any board-specific
// kernel or firmware pieces.
func (i *Installer) prepareRuntime(ctx context.Context) error {
	if err := i.osEntry.Hooks.Run(ctx, "pre-install", i.runner); err != nil {
		return fmt.Errorf("os %s: %w", i.profile.OS, err)
	}
	if err := i.boardEntry.Hooks.Run(ctx, "pre-install", i.runner); err != nil {
		return fmt.Errorf("board %s: %w", i.profile.Board, err)
	}
	return nil
}

// configure applies the idempotent node configuration steps, seeds the
// config store and addon manifests, and finishes with the post-install
// hooks.
func (i *Installer) configure(ctx context.Context) error {
	if err := config.WriteDefaultStore(i.paths.StoreFile); err != nil {
		return err
	}
	if err := addons.InstallBuiltins(i.paths.AddonDir); err != nil {
		return err
	}

	if err := i.configureHostname(ctx); err != nil {
		return err
	}
	if err := i.configureTimezone(ctx); err != nil {
		return err
	}
	if err := i.configureStorageDriver(ctx); err != nil {
		return err
	}
	if err := i.configureSwap(ctx); err != nil {
		return err
	}

	if err := i.osEntry.Hooks.Run(ctx, "post-install", i.runner); err != nil {
		return fmt.Errorf("os %s: %w", i.profile.OS, err)
	}
	if err := i.boardEntry.Hooks.Run(ctx, "post-install", i.runner); err != nil {
		return fmt.Errorf("board %s: %w", i.profile.Board, err)
	}
	return nil
}

func (i *Installer) configureStorageDriver(ctx context.Context) error {
	driver := i.opts.StorageDriver
	if driver == "" {
		log.Debug("no storage driver requested, leaving docker unit alone")
		return nil
	}

	changed, err := i.ensureStorageDriver(driver)
	if err != nil {
		return err
	}
	if !changed {
		log.Debugf("docker already uses storage driver %s", driver)
		return nil
	}

	log.Infof("set docker storage driver to %s", driver)
	if err := i.runner.Run(ctx, runner.Command{Name: "systemctl", Args: []string{"daemon-reload"}}); err != nil {
		return err
	}
	return i.runner.Run(ctx, runner.Command{Name: "systemctl", Args: []string{"restart", "docker"}})
}

// maybeReboot finishes the install. An explicit Reboot option wins; on a
// terminal the operator is asked, defaulting to yes; otherwise no reboot.
func (i *Installer) maybeReboot(ctx context.Context) error {
	reboot := false
	switch {
	case i.opts.Reboot != nil:
		reboot = *i.opts.Reboot
	case isInteractive():
		answer := true
		if err := confirmReboot(ctx, &answer); err != nil {
			return err
		}
		reboot = answer
	}

	if !reboot {
		log.Info("install finished, reboot skipped")
		return nil
	}

	log.Info("install finished, rebooting")
	return i.runner.Run(ctx, runner.Command{Name: "systemctl", Args: []string{"reboot"}})
}
