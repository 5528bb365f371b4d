package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gardleopard/kubernetes-on-arm/cmd/kube-config/handlers"
)

// EnableMaster returns the enable-master command.
func EnableMaster() *cobra.Command {
	return &cobra.Command{
		Use:   "enable-master",
		Short: "Run the master control plane on this node",
		Long: `Run the master control plane on this node.

Starts the apiserver, controller-manager, scheduler and the node services
through the kube-deploy scripts fetched during install. Workers join this
node with enable-worker <this node's IP>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.EnableMaster(cmd.Context())
		},
	}
}

// EnableWorker returns the enable-worker command.
//
// The master address is a positional argument. When omitted it falls back
// to K8S_MASTER_IP from the environment, then to the address remembered
// from a previous join.
func EnableWorker() *cobra.Command {
	return &cobra.Command{
		Use:   "enable-worker [master-ip]",
		Short: "Join this node to a cluster as a worker",
		Long: `Join this node to a cluster as a worker.

The master address is remembered, so a later re-join after disable can
leave it out:

  kube-config enable-worker 192.168.0.100
  kube-config disable
  kube-config enable-worker`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			masterIP := ""
			if len(args) == 1 {
				masterIP = args[0]
			}
			if masterIP == "" {
				masterIP = viper.GetString("K8S_MASTER_IP")
			}
			return handlers.EnableWorker(cmd.Context(), masterIP)
		},
	}
}

// Disable returns the disable command.
func Disable() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Stop cluster services on this node",
		Long: `Stop cluster services on this node.

Tears down whatever master or worker services run here. Safe to run on a
node that is not part of a cluster.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Disable(cmd.Context())
		},
	}
}
