package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/linkboard/pkg/graph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// LayerPickerModel - Interactive layer selection
// =============================================================================

// LayerPickerModel is the bubbletea model for choosing which planar layer
// to lay out. Selected is -1 until the user confirms a layer.
type LayerPickerModel struct {
	Layers   []*graph.Graph
	Cursor   int
	Selected int
	Height   int
	Offset   int
}

// NewLayerPickerModel creates a picker with the cursor on the suggested
// layer.
func NewLayerPickerModel(layers []*graph.Graph, suggested int) LayerPickerModel {
	if suggested < 0 || suggested >= len(layers) {
		suggested = 0
	}
	m := LayerPickerModel{
		Layers:   layers,
		Cursor:   suggested,
		Selected: -1,
		Height:   10,
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m LayerPickerModel) Init() tea.Cmd {
	return nil
}

func (m LayerPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layers)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Layers) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Cursor
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
	}
	return m, nil
}

func (m LayerPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layer"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ lay out  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Layers))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		l := m.Layers[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(i), strconv.Itoa(l.EdgeCount()), strconv.Itoa(connected(l))})
	}

	t := newTable("", "Layer", "Edges", "Connected").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Layers))))

	return b.String()
}

// connected counts the vertices of l that have at least one edge.
func connected(l *graph.Graph) int {
	n := 0
	for _, d := range l.Degrees() {
		if d > 0 {
			n++
		}
	}
	return n
}

// pickLayer runs the picker and returns the chosen layer index, or -1 when
// the user quits.
func pickLayer(layers []*graph.Graph, suggested int) (int, error) {
	final, err := tea.NewProgram(NewLayerPickerModel(layers, suggested)).Run()
	if err != nil {
		return -1, err
	}
	return final.(LayerPickerModel).Selected, nil
}
