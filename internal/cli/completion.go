package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command.
func (cli *CLI) newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for Linktine.

To load completions:

Bash:
  $ source <(linktine completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ linktine completion bash > /etc/bash_completion.d/linktine
  # macOS:
  $ linktine completion bash > $(brew --prefix)/etc/bash_completion.d/linktine

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ linktine completion zsh > "${fpath[1]}/_linktine"
  # You may need to start a new shell for this to take effect.

Fish:
  $ linktine completion fish | source
  # To load completions for each session, execute once:
  $ linktine completion fish > ~/.config/fish/completions/linktine.fish

PowerShell:
  PS> linktine completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> linktine completion powershell > linktine.ps1
  # and source this file from your PowerShell profile.
`,
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
