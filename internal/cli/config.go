package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/logicflow/pkg/config"
	"github.com/matzehuels/logicflow/pkg/errors"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			if err := config.Write(path, config.Default()); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

// configPath is --config, or the default location.
func (c *CLI) configPath() (string, error) {
	if c.ConfigPath != "" {
		return c.ConfigPath, nil
	}
	return config.DefaultPath()
}
