package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/logicflow/pkg/circuit"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the nodes and connections of a circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			l, err := loadCircuit(args[0], nil)
			if err != nil {
				return err
			}
			if err := l.apply(values); err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(args[0]))
			for _, w := range l.warnings {
				printWarning("%v", w)
			}
			fmt.Println(nodeTable(l).Render())
			if l.graph.ConnectionCount() > 0 {
				fmt.Println(connectionTable(l).Render())
			}
			printDetail("%d nodes · %d connections", l.graph.NodeCount(), l.graph.ConnectionCount())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "override an Input node value (ID=0|1, repeatable)")
	return cmd
}

// nodeTable lists nodes in insertion order. Inputs and outputs show socket
// values as bit strings, e.g. "10" for a two-input gate.
func nodeTable(l *loaded) *table.Table {
	nodes := l.graph.Nodes()
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		pos := n.Position()
		rows = append(rows, []string{
			fmt.Sprint(l.docID(n)),
			string(n.Kind()),
			n.Title(),
			fmt.Sprintf("%g,%g", pos.X, pos.Y),
			socketBits(n.Inputs()),
			socketBits(n.Outputs()),
			plainBit(n.Value()),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("ID", "Type", "Title", "Position", "In", "Out", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 6 && row < len(nodes) {
				if nodes[row].Value() {
					return StyleHigh
				}
				return StyleLow
			}
			return lipgloss.NewStyle()
		})
}

// connectionTable lists connections as "Title #id.index" endpoints.
func connectionTable(l *loaded) *table.Table {
	conns := l.graph.Connections()
	rows := make([][]string, 0, len(conns))
	for _, cn := range conns {
		rows = append(rows, []string{
			endpoint(l, cn.From()),
			endpoint(l, cn.To()),
			plainBit(cn.From().Value()),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("From", "To", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 2 && row < len(conns) && conns[row].From().Value() {
				return StyleHigh
			}
			if col == 2 {
				return StyleLow
			}
			return lipgloss.NewStyle()
		})
}

func endpoint(l *loaded, s *circuit.Socket) string {
	n := s.Node()
	return fmt.Sprintf("%s #%d.%d", n.Title(), l.docID(n), s.Index())
}

func socketBits(sockets []*circuit.Socket) string {
	if len(sockets) == 0 {
		return "-"
	}
	var b strings.Builder
	for _, s := range sockets {
		b.WriteString(plainBit(s.Value()))
	}
	return b.String()
}
