package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gridboard.

Bash:
  $ source <(gridboard completion bash)

Zsh:
  $ gridboard completion zsh > "${fpath[1]}/_gridboard"

Fish:
  $ gridboard completion fish > ~/.config/fish/completions/gridboard.fish

PowerShell:
  PS> gridboard completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}
}

// completeBoardRef offers stored board ids after "store:" and falls back to
// file completion otherwise.
func (c *CLI) completeBoardRef(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if !strings.HasPrefix(toComplete, storePrefix) {
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	}
	if err := c.setup(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	st, err := c.openStore(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer st.Close()
	ids, err := st.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, storePrefix+id)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeTypes offers registered widget type ids.
func (c *CLI) completeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := c.setup(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	types, err := c.types()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, d := range types.Definitions() {
		if strings.HasPrefix(d.ID, toComplete) {
			out = append(out, d.ID+"\t"+d.Name())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeBoardArg completes a leading board reference.
func (c *CLI) completeBoardArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return c.completeBoardRef(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// completePlaceArgs completes "place <board> <type>".
func (c *CLI) completePlaceArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 1 {
		return c.completeTypes(cmd, args, toComplete)
	}
	return c.completeBoardArg(cmd, args, toComplete)
}
