package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gardleopard/kubernetes-on-arm/cmd/kube-config/handlers"
)

// Install returns the command that prepares this machine as a cluster node.
//
// Every option can be pre-set through flags or the matching environment
// variable (BOARD, OS, NEW_HOSTNAME, TIMEZONE, STORAGE_DRIVER, SWAP,
// REBOOT); anything left unset is asked for interactively on a terminal
// and skipped otherwise.
func Install() *cobra.Command {
	var opts handlers.InstallOptions

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Prepare this machine as a cluster node",
		Long: `Prepare this machine as a cluster node.

Installs the container runtime for the detected board and OS, fetches the
kube-deploy scripts at a pinned revision plus the kubectl and helm
binaries, and configures hostname, timezone, docker storage driver and
swap. Finishes with an optional reboot.

Examples:
  # Interactive install
  kube-config install

  # Fully scripted install, no prompts, no reboot
  BOARD=rpi-2 OS=archlinux NEW_HOSTNAME=node1 TIMEZONE=Europe/Oslo \
    STORAGE_DRIVER=overlay2 SWAP=0 REBOOT=0 kube-config install`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ApplyEnv(viper.GetViper())
			return handlers.Install(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Board, "board", "", "Board this node runs on (e.g. rpi-2)")
	cmd.Flags().StringVar(&opts.OS, "os", "", "Operating system on this node (e.g. archlinux)")
	cmd.Flags().StringVar(&opts.Hostname, "hostname", "", "New hostname for this node")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "Timezone, e.g. Europe/Oslo")
	cmd.Flags().StringVar(&opts.StorageDriver, "storage-driver", "", "Docker storage driver (e.g. overlay2)")
	cmd.Flags().StringVar(&opts.Swap, "swap", "", "Create a swap file (1/0)")
	cmd.Flags().StringVar(&opts.Reboot, "reboot", "", "Reboot when finished (1/0)")

	return cmd
}
