package commands

import (
	"github.com/spf13/cobra"

	"github.com/gardleopard/kubernetes-on-arm/cmd/kube-config/handlers"
)

// EnableAddon returns the enable-addon command.
func EnableAddon() *cobra.Command {
	return &cobra.Command{
		Use:   "enable-addon <addon>...",
		Short: "Deploy addons to the running cluster",
		Long: `Deploy addons to the running cluster.

Addons are manifests under /etc/kubernetes-on-arm/addons, one file per
addon. The built-in ones are dashboard and registry; drop your own .yaml
file in that directory to make it available here.

Example:
  kube-config enable-addon dashboard registry`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.EnableAddons(cmd.Context(), args)
		},
	}
}

// DisableAddon returns the disable-addon command.
func DisableAddon() *cobra.Command {
	return &cobra.Command{
		Use:   "disable-addon <addon>...",
		Short: "Remove addons from the running cluster",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DisableAddons(cmd.Context(), args)
		},
	}
}
