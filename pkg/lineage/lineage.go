// Package lineage builds the layout input graph of one render: a node per
// sample and a directed edge from every sample to each of its declared
// children.
//
// The [Graph] also owns the id → sample lookup of that render. There is no
// package-level table; a lookup lives exactly as long as the Graph that was
// built from the current sample collection, so stale samples of an earlier
// render can never be reached from a click.
package lineage

import (
	"slices"

	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

// Node is a layout node. All nodes share one size: the diameter of the drawn
// circle. The label is rendered, never measured for sizing.
type Node struct {
	ID     string
	Label  string
	Width  float64
	Height float64
	// Dangling marks a node that exists only because an edge points at it.
	// It has no sample and an empty label.
	Dangling bool
}

// Edge is a parent → child derivation link.
type Edge struct {
	From string
	To   string
}

// Graph is the transient layout input of one render.
//
// The zero value is not usable; use [Build]. A Graph is not safe for
// concurrent mutation but is never mutated after Build returns.
type Graph struct {
	nodes  map[string]*Node
	order  []string
	edges  []Edge
	lookup map[string]sample.Sample
	size   float64
}

// Build registers one node per sample (label = name, width = height =
// nodeSize) and one edge per child id, including child ids that name no
// sample. Empty child ids are ignored. Samples are visited in the given order; a later sample with a
// duplicate id replaces the earlier one in the lookup but keeps its node
// position in the order.
func Build(samples []sample.Sample, nodeSize float64) *Graph {
	g := &Graph{
		nodes:  make(map[string]*Node, len(samples)),
		lookup: make(map[string]sample.Sample, len(samples)),
		size:   nodeSize,
	}
	for _, s := range samples {
		g.lookup[s.ID] = s.Clone()
		if n, ok := g.nodes[s.ID]; ok {
			n.Label = s.Name
			continue
		}
		g.addNode(Node{ID: s.ID, Label: s.Name, Width: nodeSize, Height: nodeSize})
	}

	seen := make(map[Edge]bool)
	for _, id := range g.order {
		s := g.lookup[id]
		for _, child := range s.ChildIDs {
			if child == "" {
				continue
			}
			e := Edge{From: id, To: child}
			if seen[e] {
				continue
			}
			seen[e] = true
			g.edges = append(g.edges, e)
		}
	}

	for _, e := range g.edges {
		if _, ok := g.nodes[e.To]; !ok {
			g.addNode(Node{ID: e.To, Width: nodeSize, Height: nodeSize, Dangling: true})
		}
	}
	return g
}

func (g *Graph) addNode(n Node) {
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
}

// Nodes returns the nodes in registration order: samples first, then the
// dangling child targets.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edges returns the edges in the order they were registered.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Sample returns the sample record of id from this render's lookup.
func (g *Graph) Sample(id string) (sample.Sample, bool) {
	s, ok := g.lookup[id]
	return s, ok
}

// Samples returns the lookup entries in node order.
func (g *Graph) Samples() []sample.Sample {
	out := make([]sample.Sample, 0, len(g.lookup))
	for _, id := range g.order {
		if s, ok := g.lookup[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Children returns the child ids of id as registered edges.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// NodeSize is the uniform node diameter.
func (g *Graph) NodeSize() float64 { return g.size }

// NodeCount returns the number of nodes, dangling targets included.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Labels returns the labels of all sample nodes in node order.
func (g *Graph) Labels() []string {
	out := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if n := g.nodes[id]; !n.Dangling {
			out = append(out, n.Label)
		}
	}
	return out
}
