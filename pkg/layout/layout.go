// Package layout runs the hierarchical layout of a lineage graph and derives
// the canvas bounds from the result.
//
// Positioning and edge routing are delegated to a [Service]. The contract is
// small: every node of the input graph gets a center point, and every edge gets
// an ordered waypoint sequence [start, interior..., end] with at least one
// interior point. Coordinates use a top-left origin in pixels and are inset by
// [Options.Margin] on the top and left.
//
// The default service is [Graphviz], which runs the dot engine through
// go-graphviz:
//
//	gv := layout.NewGraphviz()
//	defer gv.Close()
//	res, err := gv.Layout(ctx, g, layout.DefaultOptions())
//	b := layout.Derive(res, measurer, layout.BoundsOptions{Radius: 20, MinWidth: 300}, rows)
package layout

import (
	"context"

	"github.com/qbicsoftware/samplegraph/pkg/lineage"
)

// Point is a coordinate in pixels, origin top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Position is the laid-out center of one node.
type Position struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Route is the routed polyline of one edge.
type Route struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Points []Point `json:"points"`
}

// Mid returns the interior waypoint the two-segment edge drawing bends at.
// With more than one interior point the remaining ones are ignored, which
// makes the drawn edge an approximation of the routed spline.
func (r Route) Mid() (Point, bool) {
	if len(r.Points) < 3 {
		return Point{}, false
	}
	return r.Points[len(r.Points)/2], true
}

// Result is the output of one layout run.
type Result struct {
	Order  []string            `json:"order"`
	Nodes  map[string]Position `json:"nodes"`
	Routes []Route             `json:"routes"`
	// Width and Height are the extent reported by the service, margin included.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position returns the laid-out node with the given id.
func (r *Result) Position(id string) (Position, bool) {
	p, ok := r.Nodes[id]
	return p, ok
}

// Positions returns the positioned nodes in graph order.
func (r *Result) Positions() []Position {
	out := make([]Position, 0, len(r.Order))
	for _, id := range r.Order {
		if p, ok := r.Nodes[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Options configures a layout run.
type Options struct {
	// Margin is the top and left inset in pixels.
	Margin float64 `json:"margin"`
	// RankSep and NodeSep are the minimum distances between ranks and between
	// nodes of one rank, in pixels.
	RankSep float64 `json:"rank_sep"`
	NodeSep float64 `json:"node_sep"`
}

// DefaultOptions returns the margins and spacing of the standard diagram.
func DefaultOptions() Options {
	return Options{Margin: 15, RankSep: 50, NodeSep: 50}
}

// Service computes node positions and edge routes for a graph.
type Service interface {
	Layout(ctx context.Context, g *lineage.Graph, opts Options) (*Result, error)
}

// ServiceFunc adapts a function to [Service].
type ServiceFunc func(ctx context.Context, g *lineage.Graph, opts Options) (*Result, error)

// Layout calls f.
func (f ServiceFunc) Layout(ctx context.Context, g *lineage.Graph, opts Options) (*Result, error) {
	return f(ctx, g, opts)
}
