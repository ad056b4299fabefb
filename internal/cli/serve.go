package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/logicflow/internal/server"
	"github.com/matzehuels/logicflow/pkg/editor"
)

type serveOpts struct {
	addr    string
	noStore bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [FILE]",
		Short: "Edit a circuit over HTTP",
		Long: `Serve one circuit over a JSON HTTP API. The circuit starts empty, or with
the contents of FILE. Stored circuits are available under /circuits unless
--no-store is given. The server stops gracefully on interrupt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ed := editor.New(append(editorOptions(cfg), editor.WithObserver(c.outputObserver(cfg)))...)
			if len(args) == 1 {
				frag, err := ed.Open(args[0])
				if err != nil {
					return err
				}
				for _, w := range frag.Warnings {
					logger.Warn("load", "file", args[0], "err", w)
				}
				logger.Infof("Loaded %s: %d nodes", args[0], len(frag.Nodes))
			}

			srvOpts := []server.Option{server.WithLogger(logger)}
			if !opts.noStore {
				st, err := c.openStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				srvOpts = append(srvOpts, server.WithStore(st))
			}

			addr := opts.addr
			if addr == "" {
				addr = cfg.Server.Addr
			}
			printInfo("Serving on %s", StyleHighlight.Render(addr))
			return server.New(ed, srvOpts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "disable the /circuits routes")

	return cmd
}
