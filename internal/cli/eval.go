package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/logicflow/pkg/circuit"
)

type evalOpts struct {
	sets  []string
	write bool
}

// sinkValue is one evaluated sink node.
type sinkValue struct {
	ID    uint64 // as written in the file
	Title string
	Value bool
}

// evalResult is the outcome for one file.
type evalResult struct {
	Path     string
	Sinks    []sinkValue
	Warnings []error
}

// evalCommand creates the eval command.
func (c *CLI) evalCommand() *cobra.Command {
	var opts evalOpts

	cmd := &cobra.Command{
		Use:   "eval FILE...",
		Short: "Evaluate circuits and print their outputs",
		Long: `Evaluate one or more circuit files and print the value of every Output
and File Output node. Each file is evaluated in its own graph; files are
processed concurrently and reported in argument order.

Input values stored in the file can be overridden with --set, using the
node IDs written in the file:

  logicflow eval half-adder.json --set 1=1 --set 2=0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(opts.sets)
			if err != nil {
				return err
			}
			var obs circuit.Observer
			if opts.write {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				obs = c.outputObserver(cfg)
			}

			results, err := evalFiles(cmd.Context(), args, values, obs)
			if err != nil {
				return err
			}
			for _, r := range results {
				printEvalResult(r)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "override an Input node value (ID=0|1, repeatable)")
	cmd.Flags().BoolVar(&opts.write, "write", false, "let File Output nodes write their files")

	return cmd
}

// evalFiles evaluates every path concurrently. values applies to each file.
// The first failure cancels the remaining evaluations.
func evalFiles(ctx context.Context, paths []string, values map[uint64]bool, obs circuit.Observer) ([]evalResult, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	results := make([]evalResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := evalFile(path, values, obs)
			if err != nil {
				return err
			}
			logger.Debug("evaluated", "file", path, "sinks", len(r.Sinks))
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Evaluated %d circuit(s)", len(paths)))
	return results, nil
}

func evalFile(path string, values map[uint64]bool, obs circuit.Observer) (evalResult, error) {
	l, err := loadCircuit(path, obs)
	if err != nil {
		return evalResult{}, err
	}
	if err := l.apply(values); err != nil {
		return evalResult{}, err
	}

	r := evalResult{Path: path, Warnings: l.warnings}
	for _, n := range l.graph.Sinks() {
		r.Sinks = append(r.Sinks, sinkValue{ID: l.docID(n), Title: n.Title(), Value: n.Value()})
	}
	return r, nil
}

func printEvalResult(r evalResult) {
	printInfo("%s", StyleTitle.Render(r.Path))
	for _, w := range r.Warnings {
		printWarning("%v", w)
	}
	if len(r.Sinks) == 0 {
		printDetail("no output nodes")
		return
	}
	for _, s := range r.Sinks {
		printKeyValue(fmt.Sprintf("%s #%d", s.Title, s.ID), bit(s.Value))
	}
}
