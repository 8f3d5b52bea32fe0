package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/m2k/pkg/host"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodePickerModel - Interactive selection of the nodes to export
// =============================================================================

// pickerItem is one node offered by the picker.
type pickerItem struct {
	Name string
	Type string
}

// NodePickerModel is the bubbletea model for choosing export seeds.
// Space toggles a node, enter confirms, q or esc cancels.
type NodePickerModel struct {
	Items     []pickerItem
	Checked   map[string]bool
	Cursor    int
	Offset    int
	Height    int
	Confirmed bool
}

// NewNodePickerModel lists every node of the scene, with the scene's
// current selection pre-checked.
func NewNodePickerModel(scene *host.Memory) NodePickerModel {
	m := NodePickerModel{Checked: make(map[string]bool), Height: 15}
	for _, name := range scene.Names() {
		info, err := scene.Node(name)
		if err != nil {
			continue
		}
		m.Items = append(m.Items, pickerItem{Name: info.Name, Type: info.Type})
	}
	for _, id := range scene.Selection() {
		if info, err := scene.Node(id); err == nil {
			m.Checked[info.Name] = true
		}
	}
	return m
}

// Selection returns the checked names in scene order, or nil if the picker
// was cancelled.
func (m NodePickerModel) Selection() []string {
	if !m.Confirmed {
		return nil
	}
	var out []string
	for _, it := range m.Items {
		if m.Checked[it.Name] {
			out = append(out, it.Name)
		}
	}
	return out
}

func (m NodePickerModel) Init() tea.Cmd {
	return nil
}

func (m NodePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Items) > 0 {
				name := m.Items[m.Cursor].Name
				m.Checked = toggled(m.Checked, name)
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

// toggled returns a copy of checked with name flipped, so earlier model
// values keep their state.
func toggled(checked map[string]bool, name string) map[string]bool {
	out := make(map[string]bool, len(checked)+1)
	for k, v := range checked {
		if v {
			out[k] = true
		}
	}
	if out[name] {
		delete(out, name)
	} else {
		out[name] = true
	}
	return out
}

func (m NodePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Nodes to Copy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ copy  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[it.Name] {
			check = "[x]"
		}
		rows = append(rows, []string{cursor + check, it.Name, it.Type})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Node", "Type").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Checked[m.Items[idx].Name]:
				return StyleSuccess
			case col == 2:
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Items), len(m.Checked))))
	return b.String()
}

// pickNodes runs the picker and returns the confirmed selection.
func pickNodes(scene *host.Memory) ([]string, bool, error) {
	final, err := tea.NewProgram(NewNodePickerModel(scene)).Run()
	if err != nil {
		return nil, false, fmt.Errorf("node picker: %w", err)
	}
	m, ok := final.(NodePickerModel)
	if !ok || !m.Confirmed {
		return nil, false, nil
	}
	return m.Selection(), true, nil
}
