package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"

	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// swapSizeMiB is the fixed size of the created swap file.
const swapSizeMiB = 1024

// Prompt seams, swapped in tests.
var (
	isInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	promptHostname = func(ctx context.Context, value *string) error {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Hostname").
				Description("Leave empty to keep the current hostname").
				Value(value),
		)).RunWithContext(ctx)
	}

	promptTimezone = func(ctx context.Context, value *string) error {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Timezone").
				Description("e.g. Europe/Oslo; leave empty to keep the current one").
				Value(value),
		)).RunWithContext(ctx)
	}

	confirmSwap = func(ctx context.Context, value *bool) error {
		return huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Create a 1 GiB swap file?").
				Description("Swap shortens the life of sd cards; enable only with reliable storage").
				Value(value),
		)).RunWithContext(ctx)
	}

	confirmReboot = func(ctx context.Context, value *bool) error {
		return huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Reboot now?").
				Description("A reboot is recommended to finish the setup").
				Value(value),
		)).RunWithContext(ctx)
	}
)

func (i *Installer) configureHostname(ctx context.Context) error {
	hostname := i.opts.Hostname
	if hostname == "" && isInteractive() {
		if err := promptHostname(ctx, &hostname); err != nil {
			return err
		}
	}
	if hostname == "" {
		log.Debug("keeping current hostname")
		return nil
	}

	if runner.LookPath("hostnamectl") {
		return i.runner.Run(ctx, runner.Command{
			Name: "hostnamectl",
			Args: []string{"set-hostname", hostname},
		})
	}

	if err := os.WriteFile("/etc/hostname", []byte(hostname+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing /etc/hostname: %w", err)
	}
	return nil
}

func (i *Installer) configureTimezone(ctx context.Context) error {
	tz := i.opts.Timezone
	if tz == "" && isInteractive() {
		if err := promptTimezone(ctx, &tz); err != nil {
			return err
		}
	}
	if tz == "" {
		log.Debug("keeping current timezone")
		return nil
	}

	zonefile := filepath.Join(i.paths.ZoneinfoDir, tz)
	if _, err := os.Stat(zonefile); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", tz, err)
	}

	// Replace the symlink rather than shelling out; timedatectl is not
	// available on all supported images.
	if err := os.Remove(i.paths.Localtime); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing localtime: %w", err)
	}
	if err := os.Symlink(zonefile, i.paths.Localtime); err != nil {
		return fmt.Errorf("linking localtime: %w", err)
	}

	log.Infof("timezone set to %s", tz)
	return nil
}

// configureSwap creates and enables the fixed-size swap file, unless one
// already exists at the well-known path or swap was declined.
func (i *Installer) configureSwap(ctx context.Context) error {
	want := false
	switch {
	case i.opts.Swap != nil:
		want = *i.opts.Swap
	case isInteractive():
		if err := confirmSwap(ctx, &want); err != nil {
			return err
		}
	}
	if !want {
		log.Debug("swap not requested, skipping")
		return nil
	}

	if _, err := os.Stat(i.paths.SwapFile); err == nil {
		log.Debugf("swap file %s already exists, skipping", i.paths.SwapFile)
		return nil
	}

	steps := []runner.Command{
		{Name: "fallocate", Args: []string{"-l", fmt.Sprintf("%dM", swapSizeMiB), i.paths.SwapFile}},
		{Name: "chmod", Args: []string{"600", i.paths.SwapFile}},
		{Name: "mkswap", Args: []string{i.paths.SwapFile}},
		{Name: "swapon", Args: []string{i.paths.SwapFile}},
	}
	for _, cmd := range steps {
		if err := i.runner.Run(ctx, cmd); err != nil {
			return err
		}
	}

	return i.ensureFstabEntry()
}

// ensureFstabEntry appends the swap mount once.
func (i *Installer) ensureFstabEntry() error {
	entry := i.paths.SwapFile + " none swap defaults 0 0"

	data, err := os.ReadFile(i.paths.Fstab)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading fstab: %w", err)
	}
	if strings.Contains(string(data), i.paths.SwapFile) {
		return nil
	}

	f, err := os.OpenFile(i.paths.Fstab, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening fstab: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(entry + "\n"); err != nil {
		return fmt.Errorf("appending fstab entry: %w", err)
	}
	return nil
}
