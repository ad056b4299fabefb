package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/logicflow/pkg/snapshot"
	"github.com/matzehuels/logicflow/pkg/store"
)

// storeCommand creates the store command and its subcommands.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage circuits in the configured store",
		Long: `Manage named circuits in the store selected by the [store] section of the
config file: a directory of JSON files (default), SQLite, Redis or MongoDB.`,
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeSaveCommand())
	cmd.AddCommand(c.storeLoadCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

// withStore opens the store, runs fn and closes the store again.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored circuits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				names, err := st.List(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					printInfo("No stored circuits")
					printNextStep("Store one with", appName+" store save NAME FILE")
					return nil
				}
				for _, name := range names {
					printInfo("%s", StyleHighlight.Render(name))
				}
				return nil
			})
		},
	}
}

func (c *CLI) storeSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME FILE",
		Short: "Store a circuit file under NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, path := args[0], args[1]
			doc, err := snapshot.ReadFile(path)
			if err != nil {
				return err
			}
			return c.withStore(ctx, func(st store.Store) error {
				if err := st.Save(ctx, name, &doc); err != nil {
					return err
				}
				printSuccess("Stored %s as %s", path, StyleHighlight.Render(name))
				return nil
			})
		},
	}
}

func (c *CLI) storeLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load NAME FILE",
		Short: "Write the circuit stored under NAME to FILE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, path := args[0], args[1]
			return c.withStore(ctx, func(st store.Store) error {
				doc, err := st.Load(ctx, name)
				if err != nil {
					return err
				}
				if err := snapshot.WriteFile(path, *doc); err != nil {
					return err
				}
				printSuccess("Loaded %s", StyleHighlight.Render(name))
				printFile(path)
				return nil
			})
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a stored circuit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", StyleHighlight.Render(args[0]))
				return nil
			})
		},
	}
}
