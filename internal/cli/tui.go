package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/editor"
	"github.com/matzehuels/logicflow/pkg/workspace"
)

// Tab styles
var (
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabStyle       = lipgloss.NewStyle().Foreground(colorGray)
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// ToggleModel - Interactive input toggling
// =============================================================================

// ToggleModel is the bubbletea model of the toggle command. Every open
// circuit is a workspace tab; the cursor selects an Input node of the
// active tab.
type ToggleModel struct {
	ws     *workspace.Workspace
	Active int
	Cursor int
	Status string
	Err    error
}

// NewToggleModel creates a model over the tabs of ws.
func NewToggleModel(ws *workspace.Workspace) ToggleModel {
	return ToggleModel{ws: ws}
}

// editor returns the editor of the active tab, or nil without tabs.
func (m ToggleModel) editor() *editor.Editor {
	ids := m.ws.List()
	if len(ids) == 0 {
		return nil
	}
	ed, err := m.ws.Get(ids[m.Active%len(ids)])
	if err != nil {
		return nil
	}
	return ed
}

func (m ToggleModel) inputs() []*circuit.Node {
	if ed := m.editor(); ed != nil {
		return ed.Graph().Sources()
	}
	return nil
}

func (m ToggleModel) Init() tea.Cmd {
	return nil
}

func (m ToggleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	inputs := m.inputs()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(inputs)-1 {
			m.Cursor++
		}
	case "tab", "right", "l":
		m = m.switchTab(1)
	case "shift+tab", "left", "h":
		m = m.switchTab(-1)
	case " ", "space", "enter":
		if m.Cursor < len(inputs) {
			m = m.report(m.editor().ToggleInput(inputs[m.Cursor].ID()), "")
		}
	case "1", "0":
		if m.Cursor < len(inputs) {
			m = m.report(m.editor().SetInputValue(inputs[m.Cursor].ID(), key.String() == "1"), "")
		}
	case "s":
		if ed := m.editor(); ed != nil {
			m = m.report(ed.Save(ed.Path()), "saved "+ed.Path())
		}
	}
	return m, nil
}

func (m ToggleModel) switchTab(delta int) ToggleModel {
	n := m.ws.Len()
	if n == 0 {
		return m
	}
	m.Active = ((m.Active+delta)%n + n) % n
	m.Cursor = 0
	m.Status, m.Err = "", nil
	return m
}

// report records the outcome of an action in the status line.
func (m ToggleModel) report(err error, ok string) ToggleModel {
	m.Err = err
	m.Status = ok
	return m
}

func (m ToggleModel) View() string {
	var b strings.Builder

	b.WriteString(m.tabBar())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  space toggle  1/0 set  tab next circuit  s save  q quit"))
	b.WriteString("\n\n")

	ed := m.editor()
	if ed == nil {
		b.WriteString(listDimStyle.Render("no circuits open"))
		return b.String()
	}

	inputs := ed.Graph().Sources()
	if len(inputs) == 0 {
		b.WriteString(listDimStyle.Render("this circuit has no Input nodes"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.inputTable(inputs).Render())
		b.WriteString("\n")
	}
	if sinks := ed.Graph().Sinks(); len(sinks) > 0 {
		b.WriteString(sinkTable(sinks).Render())
		b.WriteString("\n")
	}

	switch {
	case m.Err != nil:
		b.WriteString(statusErrStyle.Render(iconError + " " + m.Err.Error()))
	case m.Status != "":
		b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.Status))
	}
	return b.String()
}

func (m ToggleModel) tabBar() string {
	ids := m.ws.List()
	parts := make([]string, 0, len(ids))
	for i, id := range ids {
		name := id
		if ed, err := m.ws.Get(id); err == nil && ed.Path() != "" {
			name = filepath.Base(ed.Path())
		}
		if i == m.Active%max(len(ids), 1) {
			parts = append(parts, tabActiveStyle.Render(name))
		} else {
			parts = append(parts, tabStyle.Render(name))
		}
	}
	return StyleTitle.Render("Toggle Inputs") + "  " + strings.Join(parts, listDimStyle.Render(" │ "))
}

func (m ToggleModel) inputTable(inputs []*circuit.Node) *table.Table {
	rows := make([][]string, 0, len(inputs))
	for i, n := range inputs {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(n.ID()), n.Title(), plainBit(n.Value())})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "ID", "Input", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row >= len(inputs) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if row == m.Cursor {
				base = base.Bold(true).Foreground(colorCyan)
			}
			if col == 3 {
				if inputs[row].Value() {
					return base.Foreground(colorGreen)
				}
				return base.Foreground(colorDim)
			}
			return base
		})
}

func sinkTable(sinks []*circuit.Node) *table.Table {
	rows := make([][]string, 0, len(sinks))
	for _, n := range sinks {
		rows = append(rows, []string{fmt.Sprint(n.ID()), n.Title(), plainBit(n.Value())})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("ID", "Output", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 2 && row < len(sinks) {
				if sinks[row].Value() {
					return StyleHigh
				}
				return StyleLow
			}
			return lipgloss.NewStyle()
		})
}
