// Package render draws circuits as node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a [circuit.Graph] to Graphviz DOT source. Each node is a
// record whose left column holds its input ports, whose middle shows its
// title and whose right column holds its output ports. Connections are
// drawn from output port to input port, left to right, and are coloured
// green while they carry true.
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.RenderSVG(dot)
//
// # Formats
//
// [RenderSVG] lays the diagram out in-process with goccy/go-graphviz.
// [RenderPDF] and [RenderPNG] convert that SVG with the external
// rsvg-convert tool (librsvg).
//
// # Options
//
//   - Detailed: node labels include the node ID and socket values
package render
