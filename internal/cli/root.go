package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/logicflow/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The logger is attached to every command's context before it runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Logicflow evaluates and edits combinational logic circuits",
		Long:          `Logicflow is a tool for building combinational logic circuits out of gates, evaluating them, and editing them from the terminal or over HTTP.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/logicflow/config.toml)")

	root.AddCommand(c.evalCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.toggleCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
