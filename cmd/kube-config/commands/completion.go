package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the named shell.

The script has to be evaluated by the shell before completions work. For
the current session only:

  source <(kube-config completion bash)
  kube-config completion fish | source

To keep completions across sessions, write the script where the shell
picks it up, e.g.:

  kube-config completion bash > /etc/bash_completion.d/kube-config
  kube-config completion zsh  > "${fpath[1]}/_kube-config"
  kube-config completion fish > ~/.config/fish/completions/kube-config.fish

zsh needs compinit enabled (autoload -U compinit; compinit in ~/.zshrc).`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
