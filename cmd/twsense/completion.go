package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Print a completion script for twsense to stdout.

Besides commands and flags, the scripts complete the values of
--output-format, --severity, --unknown-severity, --color and --log-level.

  bash:        source <(twsense completion bash)
  zsh:         twsense completion zsh > "${fpath[1]}/_twsense"
  fish:        twsense completion fish > ~/.config/fish/completions/twsense.fish
  powershell:  twsense completion powershell | Out-String | Invoke-Expression`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

var (
	outputFormats = []string{"issues", "summary", "full", "json", "markdown"}
	severities    = []string{"error", "warning", "info", "none"}
)

// completeValues registers a fixed set of completions for a flag of cmd.
// The flag must already be defined.
func completeValues(cmd *cobra.Command, flag string, values ...string) {
	cobra.CheckErr(cmd.RegisterFlagCompletionFunc(flag,
		cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp)))
}
