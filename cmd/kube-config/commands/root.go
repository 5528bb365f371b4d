// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Root returns the root command for kube-config.
func Root() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "kube-config",
		Short: "Set up Kubernetes on ARM single-board computers",
		Long: `kube-config prepares an ARM single-board computer as a Kubernetes node.

Typical workflow:
  kube-config install          # once per node
  kube-config enable-master    # on the first node
  kube-config enable-worker 192.168.0.100   # on every other node
  kube-config enable-addon dashboard        # against the running cluster`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "loglevel", log.InfoLevel.String(),
		"logrus log level (trace, debug, info, warn, error)")

	bindEnv()

	cmd.AddCommand(Install())
	cmd.AddCommand(EnableMaster())
	cmd.AddCommand(EnableWorker())
	cmd.AddCommand(Disable())
	cmd.AddCommand(EnableAddon())
	cmd.AddCommand(DisableAddon())
	cmd.AddCommand(Info())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// bindEnv wires the historical environment variables so fully scripted
// runs keep working without flags.
func bindEnv() {
	for _, key := range []string{
		"BOARD", "OS", "NEW_HOSTNAME", "TIMEZONE", "STORAGE_DRIVER",
		"SWAP", "REBOOT", "K8S_MASTER_IP",
	} {
		// BindEnv only errors on an empty key.
		_ = viper.BindEnv(key)
	}
}
