package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/render"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"

	pngScale = 2.0
)

// validFormats is the set of supported render formats.
var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPDF: true, formatPNG: true}

type renderOpts struct {
	output   string
	format   string
	detailed bool
	sets     []string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Draw a circuit as DOT, SVG, PDF or PNG",
		Long: `Render a circuit with Graphviz. Wires carrying a 1 are drawn green and
nodes with a true value are filled. The format is taken from --format, or
from the extension of --output, and defaults to svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := renderFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			if opts.output == "" {
				opts.output = outputPath(args[0], format)
			}
			return runRender(cmd.Context(), args[0], format, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format's extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), dot, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and socket values")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "override an Input node value (ID=0|1, repeatable)")

	return cmd
}

// renderFormat picks the format from the flag, then the output extension.
func renderFormat(flag, output string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "" {
		return formatSVG, nil
	}
	if !validFormats[format] {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'svg', 'dot', 'pdf', or 'png')", format)
	}
	return format, nil
}

// outputPath replaces the extension of input with format.
func outputPath(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func runRender(ctx context.Context, input, format string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	values, err := parseAssignments(opts.sets)
	if err != nil {
		return err
	}
	l, err := loadCircuit(input, nil)
	if err != nil {
		return err
	}
	if err := l.apply(values); err != nil {
		return err
	}
	for _, w := range l.warnings {
		logger.Warn("load", "err", w)
	}
	logger.Debugf("Loaded circuit: %d nodes, %d connections", l.graph.NodeCount(), l.graph.ConnectionCount())

	dot := render.ToDOT(l.graph, render.Options{Detailed: opts.detailed})
	data, err := renderDOT(dot, format)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "write %s", opts.output)
	}
	printSuccess("Rendered %s", input)
	printFile(opts.output)
	return nil
}

func renderDOT(dot, format string) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return render.RenderSVG(dot)
	case formatPDF:
		return render.RenderPDF(dot)
	case formatPNG:
		return render.RenderPNG(dot, pngScale)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format: %s", format)
	}
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Re-encode a circuit document as JSON, TOML or YAML",
		Long: `Convert a circuit document between formats. Both formats are chosen by
file extension: .json, .toml, .yaml or .yml. The document is validated
when it is read; the output file is replaced atomically.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), args[0], args[1])
		},
	}
}

func runConvert(ctx context.Context, in, out string) error {
	logger := loggerFromContext(ctx)

	doc, err := snapshot.ReadFile(in)
	if err != nil {
		return err
	}
	logger.Debug("converting", "from", snapshot.FormatFromPath(in), "to", snapshot.FormatFromPath(out))

	if err := snapshot.WriteFile(out, doc); err != nil {
		return err
	}
	printSuccess("Converted %s (%d nodes, %d connections)", in, len(doc.Nodes), len(doc.Connections))
	printFile(out)
	return nil
}
