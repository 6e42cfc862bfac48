package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/qbicsoftware/samplegraph/pkg/category"
	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

// legendRow is one legend entry as printed by the legend command.
type legendRow struct {
	Kind  category.Kind
	Key   string
	Color string // generic categories only
	File  string // icon categories only
}

// legendRows lists the legend entries of st in drawing order: generic
// categories first, then icons.
func legendRows(st sample.State, nodeSize float64) []legendRow {
	g := lineage.Build(st.Samples(), nodeSize)
	set := category.Collect(g.Labels())
	pal := category.NewPalette(set.Generic)

	rows := make([]legendRow, 0, set.Len())
	for _, key := range set.Generic {
		rows = append(rows, legendRow{Kind: category.KindGeneric, Key: key, Color: pal.Color(key)})
	}
	for _, key := range set.Icon {
		rows = append(rows, legendRow{Kind: category.KindIcon, Key: key, File: category.IconFiles[key]})
	}
	return rows
}

// legendCommand creates the legend command.
func (c *CLI) legendCommand() *cobra.Command {
	var factor string

	cmd := &cobra.Command{
		Use:   "legend <project>",
		Short: "Print the categories and colors a project's diagram shows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sample.Load(args[0])
			if err != nil {
				return err
			}
			st, err := p.State(factor)
			if err != nil {
				return err
			}
			rows := legendRows(st, c.renderOptions().NodeSize())
			if len(rows) == 0 {
				printInfo("No categories")
				return nil
			}
			fmt.Fprintln(os.Stdout, legendTable(rows).Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&factor, "factor", "", "experimental factor (default: all samples)")
	return cmd
}

func legendTable(rows []legendRow) *table.Table {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		swatch := r.File
		if r.Kind == category.KindGeneric {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render("●") + " " + r.Color
		}
		cells[i] = []string{strconv.Itoa(i + 1), r.Kind.String(), r.Key, swatch}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Kind", "Category", "Color / Icon").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 || col == 1 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}
