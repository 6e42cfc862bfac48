package layout_test

import (
	"fmt"

	"github.com/qbicsoftware/samplegraph/pkg/layout"
)

// monospace measures every rune as 7 pixels wide.
type monospace struct{}

func (monospace) TextWidth(s string) float64 { return 7 * float64(len([]rune(s))) }

func ExampleDerive() {
	res := &layout.Result{
		Order: []string{"A", "B", "QX"},
		Nodes: map[string]layout.Position{
			"A":  {ID: "A", Label: "DNA", X: 35, Y: 35},
			"B":  {ID: "B", Label: "Tumor", X: 35, Y: 125},
			"QX": {ID: "QX", X: 35, Y: 215}, // no label: not measured
		},
	}

	b := layout.Derive(res, monospace{}, layout.BoundsOptions{Radius: 20, MinWidth: 300}, 2)
	fmt.Println("Longest label:", b.LongestLabel)
	fmt.Printf("Graph width: %.0f\n", b.GraphWidth)
	fmt.Printf("Legend at y=%.0f\n", b.LegendY)
	fmt.Printf("Canvas: %.0fx%.0f\n", b.Width, b.Height)
	// Output:
	// Longest label: Tumor
	// Graph width: 103
	// Legend at y=165
	// Canvas: 300x235
}
