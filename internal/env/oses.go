package env

import (
	"context"

	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

func supportedOSes() []Entry {
	return []Entry{
		{
			Name: "archlinux",
			Hooks: Hooks{
				PreInstall:  pacmanInstallDocker,
				PostInstall: enableDockerService,
			},
		},
		{
			Name: "debian",
			Hooks: Hooks{
				PreInstall:  aptInstallDocker,
				PostInstall: enableDockerService,
			},
		},
		{
			// HypriotOS ships with Docker preinstalled.
			Name: "hypriotos",
			Hooks: Hooks{
				PostInstall: enableDockerService,
			},
		},
	}
}

func pacmanInstallDocker(ctx context.Context, r runner.Runner) error {
	return r.Run(ctx, runner.Command{
		Name: "pacman",
		Args: []string{"-S", "--noconfirm", "--needed", "docker"},
	})
}

func aptInstallDocker(ctx context.Context, r runner.Runner) error {
	if err := r.Run(ctx, runner.Command{Name: "apt-get", Args: []string{"update"}}); err != nil {
		return err
	}
	return r.Run(ctx, runner.Command{
		Name: "apt-get",
		Args: []string{"install", "-y", "docker.io"},
	})
}

func enableDockerService(ctx context.Context, r runner.Runner) error {
	return r.Run(ctx, runner.Command{
		Name: "systemctl",
		Args: []string{"enable", "--now", "docker"},
	})
}
