package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/logicflow/pkg/config"
	"github.com/matzehuels/logicflow/pkg/editor"
	"github.com/matzehuels/logicflow/pkg/workspace"
)

// toggleCommand creates the toggle command.
func (c *CLI) toggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle FILE...",
		Short: "Flip circuit inputs interactively",
		Long: `Open circuits in a terminal UI, one tab per file. Select an Input node with
the arrow keys and press space to toggle it; Output values update as the
change propagates. File Output nodes write their files as they change.
Press s to save the active circuit back to its file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ws, err := c.openWorkspace(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewToggleModel(ws), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return cmd.Context().Err()
		},
	}
}

// openWorkspace opens every path in its own tab.
func (c *CLI) openWorkspace(ctx context.Context, cfg config.Config, paths []string) (*workspace.Workspace, error) {
	logger := loggerFromContext(ctx)

	opts := append(editorOptions(cfg), editor.WithObserver(c.outputObserver(cfg)))
	ws := workspace.New(editor.NewMemoryClipboard(), opts...)
	for _, path := range paths {
		ed := ws.Open()
		frag, err := ed.Open(path)
		if err != nil {
			return nil, err
		}
		for _, w := range frag.Warnings {
			logger.Warn("load", "file", path, "err", w)
		}
		logger.Debug("opened", "file", path, "tab", ed.ID(), "nodes", len(frag.Nodes))
	}
	return ws, nil
}
