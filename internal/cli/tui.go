package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tessera/pkg/shapes"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Presets  []shapes.Preset
	Cursor   int
	Selected *shapes.Preset
}

// NewPresetListModel creates a new preset list model.
func NewPresetListModel(presets []shapes.Preset) PresetListModel {
	return PresetListModel{Presets: presets}
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Presets)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Presets) == 0 {
			return m, tea.Quit
		}
		p := m.Presets[m.Cursor]
		m.Selected = &p
		return m, tea.Quit
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	cursors := make([]string, len(m.Presets))
	for i := range m.Presets {
		if i == m.Cursor {
			cursors[i] = "▸"
		}
	}

	b.WriteString(presetTable(m.Presets, cursors, func(row int) bool { return row == m.Cursor }).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Presets))))

	return b.String()
}

// presetTable renders presets with their shape and vertex counts at the
// default size. markers fills the leading column; highlight selects rows
// drawn in the success color.
func presetTable(presets []shapes.Preset, markers []string, highlight func(row int) bool) *table.Table {
	rows := make([][]string, len(presets))
	for i, p := range presets {
		g := p.Build(shapes.DefaultSize, shapes.DefaultFill)
		vertices := 0
		for _, s := range g {
			vertices += s.Len()
		}
		marker := ""
		if i < len(markers) {
			marker = markers[i]
		}
		rows[i] = []string{marker, p.Name, p.Description, fmt.Sprint(len(g)), fmt.Sprint(vertices)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Description", "Shapes", "Vertices").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if highlight != nil && highlight(row) {
				return StyleSuccess.Bold(true)
			}
			if col >= 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})
}
