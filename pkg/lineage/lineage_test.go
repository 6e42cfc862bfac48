package lineage

import (
	"testing"

	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

func TestBuild(t *testing.T) {
	g := Build([]sample.Sample{
		{ID: "A", Name: "DNA", ChildIDs: []string{"B"}},
		{ID: "B", Name: "Tumor", Leaf: true, MeasuredPercent: 40, Amount: "12", Codes: []string{"c1"}},
	}, 40)

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("got %d nodes, %d edges; want 2, 1", g.NodeCount(), g.EdgeCount())
	}
	if e := g.Edges()[0]; e.From != "A" || e.To != "B" {
		t.Errorf("edge = %+v, want A->B", e)
	}
	n, ok := g.Node("A")
	if !ok || n.Label != "DNA" || n.Width != 40 || n.Height != 40 {
		t.Errorf("node A = %+v", n)
	}
	s, ok := g.Sample("B")
	if !ok || s.Codes[0] != "c1" {
		t.Errorf("lookup B = %+v, %v", s, ok)
	}
}

func TestBuildDanglingChild(t *testing.T) {
	g := Build([]sample.Sample{
		{ID: "A", Name: "DNA", ChildIDs: []string{"ghost", "B"}},
		{ID: "B", Name: "RNA"},
	}, 40)

	if g.EdgeCount() != 2 {
		t.Fatalf("dangling edge should be kept, got %d edges", g.EdgeCount())
	}
	n, ok := g.Node("ghost")
	if !ok || !n.Dangling || n.Label != "" {
		t.Errorf("ghost node = %+v, %v", n, ok)
	}
	if _, ok := g.Sample("ghost"); ok {
		t.Error("dangling node must not have a sample")
	}
	nodes := g.Nodes()
	if nodes[len(nodes)-1].ID != "ghost" {
		t.Errorf("dangling nodes should come last, got %v", nodes)
	}
	if labels := g.Labels(); len(labels) != 2 {
		t.Errorf("Labels() = %v, want only sample labels", labels)
	}
}

func TestBuildDuplicateIDs(t *testing.T) {
	g := Build([]sample.Sample{
		{ID: "A", Name: "first"},
		{ID: "A", Name: "second", ChildIDs: []string{"B"}},
		{ID: "B", Name: "x"},
	}, 40)

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if s, _ := g.Sample("A"); s.Name != "second" {
		t.Errorf("later duplicate should win, got %q", s.Name)
	}
	if n, _ := g.Node("A"); n.Label != "second" {
		t.Errorf("label = %q", n.Label)
	}
}

func TestBuildIsolatesLookup(t *testing.T) {
	codes := []string{"c1"}
	g := Build([]sample.Sample{{ID: "A", Codes: codes}}, 40)
	codes[0] = "mutated"
	if s, _ := g.Sample("A"); s.Codes[0] != "c1" {
		t.Error("lookup must not alias caller slices")
	}

	other := Build([]sample.Sample{{ID: "Z"}}, 40)
	if _, ok := other.Sample("A"); ok {
		t.Error("a new render must not see samples of a previous one")
	}
}

func TestBuildDuplicateEdges(t *testing.T) {
	g := Build([]sample.Sample{
		{ID: "A", ChildIDs: []string{"B", "B"}},
		{ID: "B"},
	}, 40)
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if c := g.Children("A"); len(c) != 1 || c[0] != "B" {
		t.Errorf("Children(A) = %v", c)
	}
}

func TestBuildIgnoresEmptyChildID(t *testing.T) {
	g := Build([]sample.Sample{
		{ID: "A", ChildIDs: []string{"", "B"}},
		{ID: "B"},
	}, 40)
	if g.EdgeCount() != 1 || g.NodeCount() != 2 {
		t.Errorf("edges = %d nodes = %d, want 1 and 2", g.EdgeCount(), g.NodeCount())
	}
	if _, ok := g.Node(""); ok {
		t.Error("empty child id registered a node")
	}
}
