package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

const completionHelp = `Generate a shell completion script for APP.

Bash:
  $ source <(APP completion bash)

Zsh (with compinit enabled):
  $ APP completion zsh > "${fpath[1]}/_APP"

Fish:
  $ APP completion fish > ~/.config/fish/completions/APP.fish

PowerShell:
  PS> APP completion powershell | Out-String | Invoke-Expression
`

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  strings.ReplaceAll(completionHelp, "APP", appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
