package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
)

const (
	colorTrue  = "#2e7d32"
	colorFalse = "#9e9e9e"
	fillTrue   = "#e8f5e9"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds node IDs and socket values to labels.
	Detailed bool
}

// ToDOT converts a circuit to Graphviz DOT source.
func ToDOT(g *circuit.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph circuit {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.6, penwidth=2];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=\"%s\"", fmtLabel(n, opts.Detailed))}
		if n.Value() {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fillTrue))
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeName(n.ID()), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Connections() {
		from, to := c.From(), c.To()
		color := colorFalse
		if from.Value() {
			color = colorTrue
		}
		fmt.Fprintf(&buf, "  %s:o%d:e -> %s:i%d:w [color=%q];\n",
			nodeName(from.Node().ID()), from.Index(),
			nodeName(to.Node().ID()), to.Index(), color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id circuit.ID) string { return "n" + strconv.FormatUint(uint64(id), 10) }

// fmtLabel builds a record label laid out as {inputs | title | outputs}.
// With rankdir=LR the outer braces turn the fields horizontal and the inner
// ones stack ports vertically.
func fmtLabel(n *circuit.Node, detailed bool) string {
	title := escapeRecord(n.Title())
	if detailed {
		title += fmt.Sprintf("\\n#%d", n.ID())
		if n.IsSource() || n.IsSink() {
			title += "\\n" + bit(n.Value())
		}
	}

	fields := make([]string, 0, 3)
	if ins := n.Inputs(); len(ins) > 0 {
		fields = append(fields, "{"+ports("i", ins, detailed)+"}")
	}
	fields = append(fields, title)
	if outs := n.Outputs(); len(outs) > 0 {
		fields = append(fields, "{"+ports("o", outs, detailed)+"}")
	}
	return "{" + strings.Join(fields, "|") + "}"
}

func ports(prefix string, sockets []*circuit.Socket, detailed bool) string {
	parts := make([]string, len(sockets))
	for i, s := range sockets {
		text := " "
		if detailed {
			text = bit(s.Value())
		}
		parts[i] = fmt.Sprintf("<%s%d> %s", prefix, s.Index(), text)
	}
	return strings.Join(parts, "|")
}

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`, `"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`, "\n", `\n`,
)

func escapeRecord(s string) string { return recordEscaper.Replace(s) }

// RenderSVG lays out DOT source and renders it to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// width and height match the viewBox, so browsers scale it predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
