package layout

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

// fixedWidth measures every rune as 8px.
type fixedWidth struct{}

func (fixedWidth) TextWidth(s string) float64 { return 8 * float64(len([]rune(s))) }

const plainAB = `graph 1 0.83333 1.8611
node n0 0.41667 1.4444 0.55556 0.55556 "" solid circle black lightgrey
node n1 0.41667 0.41667 0.55556 0.55556 "" solid circle black lightgrey
edge n0 n1 4 0.41667 1.1667 0.41667 1.0278 0.41667 0.83333 0.41667 0.69444 solid black
stop
`

func TestParsePlain(t *testing.T) {
	pl, err := ParsePlain([]byte(plainAB))
	if err != nil {
		t.Fatalf("ParsePlain() error: %v", err)
	}
	if pl.Scale != 1 || pl.Width != 0.83333 || pl.Height != 1.8611 {
		t.Errorf("graph line = %v %v %v", pl.Scale, pl.Width, pl.Height)
	}
	if len(pl.Nodes) != 2 || pl.Nodes[1].Name != "n1" || pl.Nodes[1].Y != 0.41667 {
		t.Errorf("nodes = %+v", pl.Nodes)
	}
	if len(pl.Edges) != 1 {
		t.Fatalf("edges = %+v", pl.Edges)
	}
	e := pl.Edges[0]
	if e.Tail != "n0" || e.Head != "n1" || len(e.Points) != 4 {
		t.Errorf("edge = %+v", e)
	}
}

func TestParsePlainContinuation(t *testing.T) {
	in := "graph 1 1 1\nedge a b 2 0 0 \\\n1 1 solid black\nstop\n"
	pl, err := ParsePlain([]byte(in))
	if err != nil {
		t.Fatalf("ParsePlain() error: %v", err)
	}
	if len(pl.Edges) != 1 || len(pl.Edges[0].Points) != 2 || pl.Edges[0].Points[1].X != 1 {
		t.Errorf("edges = %+v", pl.Edges)
	}
}

func TestParsePlainQuotedNames(t *testing.T) {
	in := `node "a b" 1 2 0.5 0.5 "a label" solid circle black lightgrey`
	pl, err := ParsePlain([]byte(in))
	if err != nil {
		t.Fatalf("ParsePlain() error: %v", err)
	}
	if pl.Nodes[0].Name != "a b" {
		t.Errorf("name = %q", pl.Nodes[0].Name)
	}
}

func TestParsePlainErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short graph", "graph 1 2"},
		{"bad number", "node n0 x 1"},
		{"short edge", "edge a b 3 0 0 1 1"},
		{"bad count", "edge a b many 0 0"},
		{"unterminated quote", `node "n0 1 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePlain([]byte(tt.in)); err == nil {
				t.Errorf("ParsePlain(%q) succeeded, want error", tt.in)
			}
		})
	}
}

func TestFromPlain(t *testing.T) {
	g := lineage.Build([]sample.Sample{
		{ID: "A", Name: "DNA", ChildIDs: []string{"B"}},
		{ID: "B", Name: "Tumor"},
	}, 40)
	_, names := ToDOT(g, DefaultOptions())
	pl, err := ParsePlain([]byte(plainAB))
	if err != nil {
		t.Fatal(err)
	}

	res, err := fromPlain(g, pl, names, DefaultOptions())
	if err != nil {
		t.Fatalf("fromPlain() error: %v", err)
	}
	a, _ := res.Position("A")
	b, _ := res.Position("B")
	if a.Y >= b.Y {
		t.Errorf("parent should be above child: A.y=%v B.y=%v", a.Y, b.Y)
	}
	if math.Abs(a.X-(0.41667*72+15)) > 1e-9 {
		t.Errorf("A.x = %v", a.X)
	}
	if a.Label != "DNA" {
		t.Errorf("A.label = %q", a.Label)
	}
	if len(res.Routes) != 1 {
		t.Fatalf("routes = %d", len(res.Routes))
	}
	r := res.Routes[0]
	if len(r.Points) != 6 {
		t.Errorf("route has %d points, want 4 control points plus both centers", len(r.Points))
	}
	if r.Points[0] != (Point{a.X, a.Y}) || r.Points[len(r.Points)-1] != (Point{b.X, b.Y}) {
		t.Errorf("route must start and end at node centers: %+v", r.Points)
	}
	if _, ok := r.Mid(); !ok {
		t.Error("Mid() not available")
	}
}

func TestFromPlainUnknownNode(t *testing.T) {
	g := lineage.Build([]sample.Sample{{ID: "A"}}, 40)
	pl := &Plain{Scale: 1, Nodes: []PlainNode{{Name: "zz"}}}
	if _, err := fromPlain(g, pl, map[string]string{"n0": "A"}, Options{}); err == nil {
		t.Error("unknown node should fail")
	}
}

func TestToDOT(t *testing.T) {
	g := lineage.Build([]sample.Sample{
		{ID: "A", Name: "DNA", ChildIDs: []string{"B"}},
		{ID: "B", Name: "Tumor"},
	}, 40)
	dot, names := ToDOT(g, DefaultOptions())

	for _, want := range []string{"digraph G", "rankdir=TB", "shape=circle", "n0 -> n1", "arrowhead=none"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q", want)
		}
	}
	if names["n0"] != "A" || names["n1"] != "B" {
		t.Errorf("names = %v", names)
	}
}

func TestRouteMid(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want Point
		ok   bool
	}{
		{"too short", []Point{{0, 0}, {1, 1}}, Point{}, false},
		{"one interior", []Point{{0, 0}, {5, 5}, {10, 10}}, Point{5, 5}, true},
		{"many interior", []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}, Point{2, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Route{Points: tt.pts}.Mid()
			if ok != tt.ok || got != tt.want {
				t.Errorf("Mid() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	res := &Result{
		Order: []string{"A", "B", "ghost"},
		Nodes: map[string]Position{
			"A":     {ID: "A", Label: "DNA", X: 50, Y: 35},
			"B":     {ID: "B", Label: "Tumor", X: 50, Y: 125},
			"ghost": {ID: "ghost", X: 900, Y: 900},
		},
	}
	b := Derive(res, fixedWidth{}, BoundsOptions{Radius: 20, MinWidth: 300}, 2)

	if b.MaxX != 50 || b.MaxY != 125 {
		t.Errorf("max = %v,%v; unlabeled nodes must be ignored", b.MaxX, b.MaxY)
	}
	if b.LongestLabel != "Tumor" {
		t.Errorf("LongestLabel = %q", b.LongestLabel)
	}
	if b.GraphWidth != 50+20+32+20 {
		t.Errorf("GraphWidth = %v", b.GraphWidth)
	}
	if b.LegendWidth != 10+2*40+20 {
		t.Errorf("LegendWidth = %v", b.LegendWidth)
	}
	if b.Width != 300 {
		t.Errorf("Width = %v, want floor 300", b.Width)
	}
	if b.Height != 125+20+20+2*35 {
		t.Errorf("Height = %v", b.Height)
	}
	if b.LegendY != 165 {
		t.Errorf("LegendY = %v", b.LegendY)
	}
}

func TestDeriveLongestLabelTies(t *testing.T) {
	res := &Result{
		Order: []string{"1", "2"},
		Nodes: map[string]Position{
			"1": {ID: "1", Label: "abc"},
			"2": {ID: "2", Label: "xyz"},
		},
	}
	if got := Derive(res, fixedWidth{}, BoundsOptions{Radius: 20}, 0).LongestLabel; got != "abc" {
		t.Errorf("LongestLabel = %q, want first of equal length", got)
	}

	empty := &Result{Nodes: map[string]Position{}}
	if got := Derive(empty, fixedWidth{}, BoundsOptions{Radius: 20}, 0).LongestLabel; got != "x" {
		t.Errorf("LongestLabel = %q, want initial x", got)
	}
}

func TestDeriveWidthFloor(t *testing.T) {
	res := &Result{
		Order: []string{"A"},
		Nodes: map[string]Position{"A": {ID: "A", Label: strings.Repeat("w", 40), X: 10, Y: 10}},
	}
	b := Derive(res, fixedWidth{}, BoundsOptions{Radius: 20, MinWidth: 300}, 1)
	if b.Width != b.LegendWidth || b.Width <= 300 {
		t.Errorf("Width = %v, LegendWidth = %v", b.Width, b.LegendWidth)
	}
}

func TestGraphvizLayout(t *testing.T) {
	g := lineage.Build([]sample.Sample{
		{ID: "A", Name: "DNA", ChildIDs: []string{"B"}},
		{ID: "B", Name: "Tumor"},
	}, 40)
	gv := NewGraphviz()
	defer gv.Close()

	res, err := gv.Layout(context.Background(), g, DefaultOptions())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	a, okA := res.Position("A")
	b, okB := res.Position("B")
	if !okA || !okB {
		t.Fatalf("positions missing: %+v", res.Nodes)
	}
	if a.Y >= b.Y {
		t.Errorf("A (%v) should be above B (%v)", a.Y, b.Y)
	}
	if len(res.Routes) != 1 || len(res.Routes[0].Points) < 3 {
		t.Errorf("routes = %+v", res.Routes)
	}
	if a.X < 15 || a.Y < 15 {
		t.Errorf("margin not applied: %+v", a)
	}
}

func TestGraphvizEmpty(t *testing.T) {
	gv := NewGraphviz()
	defer gv.Close()
	res, err := gv.Layout(context.Background(), lineage.Build(nil, 40), DefaultOptions())
	if err != nil || len(res.Nodes) != 0 {
		t.Errorf("Layout(empty) = %+v, %v", res, err)
	}
}
