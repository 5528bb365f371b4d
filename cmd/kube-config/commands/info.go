package commands

import (
	"github.com/spf13/cobra"

	"github.com/gardleopard/kubernetes-on-arm/cmd/kube-config/handlers"
	"github.com/gardleopard/kubernetes-on-arm/internal/status"
)

// Info returns the info command.
//
// The report is best-effort: fields the node cannot answer (no docker,
// no cluster) are simply left out.
func Info() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show hardware, version and cluster status for this node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			build := status.BuildInfo{Version: version, Commit: commit, Date: date}
			return handlers.Info(cmd.Context(), build)
		},
	}
}
