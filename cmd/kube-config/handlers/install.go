package handlers

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/env"
	"github.com/gardleopard/kubernetes-on-arm/internal/install"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// InstallOptions carries everything an install run can be told up front.
// Empty string fields mean "ask on a terminal, skip otherwise".
type InstallOptions struct {
	Board         string
	OS            string
	Hostname      string
	Timezone      string
	StorageDriver string
	Swap          string
	Reboot        string
}

// ApplyEnv fills any option left empty by flags from the bound
// environment variables, so BOARD=rpi-2 and --board rpi-2 are
// interchangeable with the flag winning.
func (o *InstallOptions) ApplyEnv(v *viper.Viper) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = v.GetString(key)
		}
	}
	fill(&o.Board, "BOARD")
	fill(&o.OS, "OS")
	fill(&o.Hostname, "NEW_HOSTNAME")
	fill(&o.Timezone, "TIMEZONE")
	fill(&o.StorageDriver, "STORAGE_DRIVER")
	fill(&o.Swap, "SWAP")
	fill(&o.Reboot, "REBOOT")
}

// nodeInstaller interface for testing - matches install.Installer.
type nodeInstaller interface {
	Run(ctx context.Context) error
}

// Factory function variables for install - can be replaced in tests.
var (
	// resolveProfile determines the board/OS profile for this machine.
	resolveProfile = func(ctx context.Context, reg *env.Registry, board, osName string) (*env.Profile, error) {
		return env.Resolve(ctx, reg, config.EnvFile, board, osName)
	}

	// newInstaller assembles the installer for a resolved profile.
	newInstaller = func(r runner.Runner, profile *env.Profile, reg *env.Registry, versions config.Versions, opts install.Options) nodeInstaller {
		return install.New(r, profile, reg, versions, install.DefaultPaths(), opts)
	}
)

// Install handles the install command.
//
// It resolves the machine profile, then runs the installer stages:
// container runtime, kube-deploy checkout, binaries, and local OS
// configuration, finishing with an optional reboot.
func Install(ctx context.Context, opts InstallOptions) error {
	reg := env.NewRegistry()

	profile, err := resolveProfile(ctx, reg, opts.Board, opts.OS)
	if err != nil {
		return err
	}
	log.Infof("installing for board %s on %s", profile.Board, profile.OS)

	versions, err := loadVersions()
	if err != nil {
		return err
	}

	installOpts := install.Options{
		Hostname:      opts.Hostname,
		Timezone:      opts.Timezone,
		StorageDriver: opts.StorageDriver,
	}
	if installOpts.Swap, err = parseSwitch("swap", opts.Swap); err != nil {
		return err
	}
	if installOpts.Reboot, err = parseSwitch("reboot", opts.Reboot); err != nil {
		return err
	}

	return newInstaller(newRunner(), profile, reg, versions, installOpts).Run(ctx)
}

// parseSwitch maps the historical 1/0 switch values (plus true/false and
// yes/no) onto a tri-state: nil means the value was never given.
func parseSwitch(name, value string) (*bool, error) {
	switch value {
	case "":
		return nil, nil
	case "1", "true", "yes":
		v := true
		return &v, nil
	case "0", "false", "no":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid %s value %q (want 1 or 0)", name, value)
	}
}
