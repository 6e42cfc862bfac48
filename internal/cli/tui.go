package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

var errCanceled = errors.New(errors.ErrCodeInvalidInput, "no factor selected")

// allSamples is the picker row that selects no factor.
const allSamples = "(all samples)"

// =============================================================================
// FactorListModel - Interactive experimental factor selection
// =============================================================================

// FactorListModel is the bubbletea model for interactive factor selection.
// The first row draws every sample of the project.
type FactorListModel struct {
	Names    []string
	Counts   map[string]int
	Cursor   int
	Offset   int
	Height   int
	Selected *string
}

// NewFactorListModel creates a picker over the factors of p.
func NewFactorListModel(p *sample.Project) FactorListModel {
	names := append([]string{allSamples}, p.FactorNames()...)
	counts := map[string]int{allSamples: len(p.Samples)}
	for name, ids := range p.Factors {
		counts[name] = len(ids)
	}
	return FactorListModel{Names: names, Counts: counts, Height: 15}
}

func (m FactorListModel) Init() tea.Cmd {
	return nil
}

func (m FactorListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			name := m.Names[m.Cursor]
			if name == allSamples {
				name = ""
			}
			m.Selected = &name
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FactorListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Experimental Factor"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Names))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name := m.Names[i]
		rows = append(rows, []string{cursor, name, fmt.Sprintf("%d", m.Counts[name])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Factor", "Samples").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Names))))

	return b.String()
}

// pickFactor runs the factor picker. An empty result selects every sample.
func pickFactor(p *sample.Project) (string, error) {
	final, err := tea.NewProgram(NewFactorListModel(p)).Run()
	if err != nil {
		return "", fmt.Errorf("factor picker: %w", err)
	}
	m, ok := final.(FactorListModel)
	if !ok || m.Selected == nil {
		return "", errCanceled
	}
	return *m.Selected, nil
}
