/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for sixhats.

To load completions:

Bash:
  $ source <(sixhats completion bash)
  # To load completions for each session, add to ~/.bashrc:
  $ echo 'source <(sixhats completion bash)' >> ~/.bashrc

Zsh:
  $ source <(sixhats completion zsh)
  # To load completions for each session, add to ~/.zshrc:
  $ echo 'source <(sixhats completion zsh)' >> ~/.zshrc

Fish:
  $ sixhats completion fish | source
  # To load completions for each session:
  $ sixhats completion fish > ~/.config/fish/completions/sixhats.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		default:
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
	// replaces cobra's built-in command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
