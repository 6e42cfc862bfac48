package lineage_test

import (
	"fmt"

	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

func ExampleBuild() {
	// DNA extracted from a tumor sample; "QX" was never pushed.
	g := lineage.Build([]sample.Sample{
		{ID: "A", Name: "Tumor", ChildIDs: []string{"B", "QX"}},
		{ID: "B", Name: "DNA"},
	}, 40)

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Labels:", g.Labels())
	fmt.Println("Children of A:", g.Children("A"))

	n, _ := g.Node("QX")
	_, known := g.Sample("QX")
	fmt.Println("QX dangling:", n.Dangling, "known:", known)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Labels: [Tumor DNA]
	// Children of A: [B QX]
	// QX dangling: true known: false
}
