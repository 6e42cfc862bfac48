package layout

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/lineage"
)

// pointsPerInch converts Graphviz inches to pixels.
const pointsPerInch = 72.0

// plainFormat is Graphviz's line-oriented layout dump.
const plainFormat = graphviz.Format("plain")

// Graphviz is a [Service] backed by the Graphviz dot engine.
//
// The Graphviz runtime is created on first use and reused; call Close to
// release it. Layout calls are serialized.
type Graphviz struct {
	mu sync.Mutex
	gv *graphviz.Graphviz
}

// NewGraphviz returns a Graphviz layout service.
func NewGraphviz() *Graphviz {
	return &Graphviz{}
}

// Layout converts g to DOT, runs dot and reads back the plain output.
func (s *Graphviz) Layout(ctx context.Context, g *lineage.Graph, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.NodeCount() == 0 {
		return &Result{Nodes: map[string]Position{}}, nil
	}

	dot, names := ToDOT(g, opts)
	out, err := s.render(ctx, dot)
	if err != nil {
		return nil, err
	}

	pl, err := ParsePlain(out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "parse graphviz output")
	}
	return fromPlain(g, pl, names, opts)
}

func (s *Graphviz) render(ctx context.Context, dot string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gv == nil {
		gv, err := graphviz.New(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "init graphviz")
		}
		s.gv = gv
	}

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "parse DOT")
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := s.gv.Render(ctx, graph, plainFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "run dot")
	}
	return buf.Bytes(), nil
}

// Close releases the Graphviz runtime.
func (s *Graphviz) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gv == nil {
		return nil
	}
	err := s.gv.Close()
	s.gv = nil
	return err
}

// ToDOT writes g as a top-to-bottom digraph of fixed-size circles.
//
// Sample ids are arbitrary strings, so nodes are named n0, n1, ... in graph
// order; the returned map resolves those names back to ids.
func ToDOT(g *lineage.Graph, opts Options) (string, map[string]string) {
	size := g.NodeSize() / pointsPerInch
	names := make(map[string]string, g.NodeCount())
	byID := make(map[string]string, g.NodeCount())

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(opts.RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(opts.NodeSep))
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, width=%s, height=%s, label=\"\"];\n",
		ftoa(size), ftoa(size))
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for i, n := range g.Nodes() {
		name := "n" + strconv.Itoa(i)
		names[name] = n.ID
		byID[n.ID] = name
		fmt.Fprintf(&buf, "  %s; // %q\n", name, n.ID)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", byID[e.From], byID[e.To])
	}

	buf.WriteString("}\n")
	return buf.String(), names
}

func inches(px float64) string { return ftoa(px / pointsPerInch) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }

// fromPlain converts plain coordinates (inches, origin bottom-left) into
// pixels with a top-left origin shifted by the margin.
func fromPlain(g *lineage.Graph, pl *Plain, names map[string]string, opts Options) (*Result, error) {
	toPx := func(x, y float64) Point {
		return Point{
			X: x*pointsPerInch*pl.Scale + opts.Margin,
			Y: (pl.Height-y)*pointsPerInch*pl.Scale + opts.Margin,
		}
	}

	res := &Result{
		Nodes:  make(map[string]Position, len(pl.Nodes)),
		Width:  pl.Width*pointsPerInch*pl.Scale + 2*opts.Margin,
		Height: pl.Height*pointsPerInch*pl.Scale + 2*opts.Margin,
	}
	for _, n := range g.Nodes() {
		res.Order = append(res.Order, n.ID)
	}

	for _, pn := range pl.Nodes {
		id, ok := names[pn.Name]
		if !ok {
			return nil, errors.New(errors.ErrCodeLayoutFailed, "graphviz returned unknown node %q", pn.Name)
		}
		n, _ := g.Node(id)
		p := toPx(pn.X, pn.Y)
		res.Nodes[id] = Position{ID: id, Label: n.Label, X: p.X, Y: p.Y}
	}

	for _, pe := range pl.Edges {
		from, to := names[pe.Tail], names[pe.Head]
		start, okS := res.Nodes[from]
		end, okE := res.Nodes[to]
		if !okS || !okE || len(pe.Points) == 0 {
			continue
		}
		pts := make([]Point, 0, len(pe.Points)+2)
		pts = append(pts, Point{X: start.X, Y: start.Y})
		for _, cp := range pe.Points {
			pts = append(pts, toPx(cp.X, cp.Y))
		}
		pts = append(pts, Point{X: end.X, Y: end.Y})
		res.Routes = append(res.Routes, Route{From: from, To: to, Points: pts})
	}
	return res, nil
}
