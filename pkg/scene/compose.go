package scene

import (
	"slices"

	"github.com/google/uuid"

	"github.com/qbicsoftware/samplegraph/pkg/category"
	"github.com/qbicsoftware/samplegraph/pkg/layout"
	"github.com/qbicsoftware/samplegraph/pkg/lineage"
)

// Hover opacities of the interactive shapes.
const (
	HoverNode    = 0.9
	HoverOverlay = 0.3
	HoverArc     = 0.6
)

// Style holds the drawing constants of a scene.
type Style struct {
	Radius      float64 `toml:"radius"`
	Margin      float64 `toml:"margin"`
	FontSize    float64 `toml:"font_size"`
	Highlight   string  `toml:"highlight"`
	Done        string  `toml:"done"`
	Missing     string  `toml:"missing"`
	Stroke      string  `toml:"stroke"`
	EdgeWidth   float64 `toml:"edge_width"`
	AmountShift float64 `toml:"amount_shift"`
}

// DefaultStyle returns the standard diagram constants.
func DefaultStyle() Style {
	return Style{
		Radius:      20,
		Margin:      15,
		FontSize:    14,
		Highlight:   "#3494F8",
		Done:        "green",
		Missing:     "grey",
		Stroke:      "black",
		EdgeWidth:   2,
		AmountShift: 22,
	}
}

// Input is everything one draw pass reads.
type Input struct {
	// ID names the scene; a random UUID is used when empty.
	ID         string
	Graph      *lineage.Graph
	Layout     *layout.Result
	Bounds     layout.Bounds
	Categories category.Set
	Palette    *category.Palette
	ImagePath  string
	Style      Style
}

// Pattern ID prefixes.
const (
	NodePatternPrefix   = "node-"
	LegendPatternPrefix = "legend-"
)

// Compose draws a fresh scene. It reads in and never modifies it.
//
// Paint order is: edges, then per node the base circle, icon overlay, done
// arc, missing arc and amount text, then the legend.
func Compose(in Input) *Scene {
	st := in.Style
	r := st.Radius
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	if in.Layout == nil {
		in.Layout = &layout.Result{}
	}
	if in.Graph == nil {
		in.Graph = lineage.Build(nil, 2*r)
	}

	sc := &Scene{
		ID:     id,
		Width:  in.Bounds.Width,
		Height: in.Bounds.Height,
	}
	sc.Patterns = patterns(in.Categories.Icon, in.ImagePath, r)

	c := composer{in: in, sc: sc}
	c.edges()
	c.nodes()
	c.legend()
	return sc
}

func patterns(icons []string, imagePath string, r float64) []Pattern {
	out := make([]Pattern, 0, 2*len(icons))
	for _, key := range icons {
		href := imagePath + category.IconFiles[key]
		out = append(out,
			Pattern{ID: NodePatternPrefix + key, Key: key, Size: 2 * r, Href: href},
			Pattern{ID: LegendPatternPrefix + key, Key: key, Size: r, Href: href},
		)
	}
	return out
}

type composer struct {
	in Input
	sc *Scene
}

func (c *composer) add(s Shape) { c.sc.Shapes = append(c.sc.Shapes, s) }

// edges draws every routed edge as two straight segments through the route's
// middle waypoint. Edges with an endpoint that has no sample are skipped.
func (c *composer) edges() {
	st := c.in.Style
	for _, rt := range c.in.Layout.Routes {
		if !c.hasSample(rt.From) || !c.hasSample(rt.To) {
			continue
		}
		mid, ok := rt.Mid()
		if !ok {
			continue
		}
		from, okF := c.in.Layout.Position(rt.From)
		to, okT := c.in.Layout.Position(rt.To)
		if !okF || !okT {
			continue
		}
		for _, seg := range [2][4]float64{
			{from.X, from.Y, mid.X, mid.Y},
			{mid.X, mid.Y, to.X, to.Y},
		} {
			c.add(Shape{
				Kind: KindLine, Role: RoleEdge,
				X: seg[0], Y: seg[1], X2: seg[2], Y2: seg[3],
				Stroke: st.Stroke, StrokeWidth: st.EdgeWidth,
			})
		}
	}
}

func (c *composer) hasSample(id string) bool {
	_, ok := c.in.Graph.Sample(id)
	return ok
}

func (c *composer) nodes() {
	st := c.in.Style
	r := st.Radius
	for _, p := range c.in.Layout.Positions() {
		if p.Label == "" {
			continue
		}
		s, ok := c.in.Graph.Sample(p.ID)
		if !ok {
			continue
		}
		bind := func(opacity float64) *Binding {
			return &Binding{SampleID: s.ID, Label: p.Label, Codes: slices.Clone(s.Codes), HoverOpacity: opacity}
		}

		cat := category.Classify(p.Label)
		fill := st.Highlight
		if cat.Kind == category.KindGeneric && c.in.Palette != nil {
			fill = c.in.Palette.Color(cat.Key)
		}
		c.add(Shape{
			Kind: KindCircle, Role: RoleNode,
			X: p.X, Y: p.Y, R: r,
			Fill: fill, Stroke: st.Stroke,
			Binding: bind(HoverNode),
		})

		if cat.Kind == category.KindIcon {
			c.add(Shape{
				Kind: KindCircle, Role: RoleIcon,
				X: p.X, Y: p.Y, R: r,
				Pattern: NodePatternPrefix + cat.Key, Stroke: st.Stroke,
				Binding: bind(HoverOverlay),
			})
		}

		if s.Leaf {
			done := fullTurn * s.Measured() / 100
			ring := func(role Role, fill string, from, to float64) {
				c.add(Shape{
					Kind: KindArc, Role: role,
					X: p.X, Y: p.Y,
					Arc: &Arc{Start: from, End: to, Inner: r, Outer: r + r/4},
					Fill: fill, Stroke: st.Stroke,
					Binding: bind(HoverArc),
				})
			}
			if done > arcEpsilon {
				ring(RoleDone, st.Done, 0, done)
			}
			if done < fullTurn-arcEpsilon {
				ring(RoleMissing, st.Missing, done, fullTurn)
			}
		}

		if amount := s.Amount.String(); amount != "" {
			c.add(Shape{
				Kind: KindText, Role: RoleAmount,
				X: p.X + st.AmountShift, Y: p.Y - st.AmountShift,
				Text: amount, Anchor: "middle", FontSize: st.FontSize,
				Stroke: st.Stroke,
			})
		}
	}
}

// legend draws generic rows first, then icon rows, one entry per distinct
// category.
func (c *composer) legend() {
	st := c.in.Style
	r := st.Radius
	b := c.in.Bounds
	rowY := func(i int) float64 { return b.LegendY + b.LegendRowHeight*float64(i) + 10 }

	row := 0
	for _, key := range c.in.Categories.Generic {
		y := rowY(row)
		color := ""
		if c.in.Palette != nil {
			color = c.in.Palette.Color(key)
		}
		c.sc.Legend = append(c.sc.Legend, LegendEntry{Kind: category.KindGeneric, Key: key, Color: color, Y: y})
		c.add(Shape{Kind: KindCircle, Role: RoleLegendSwatch, X: st.Margin, Y: y, R: r / 2, Fill: color})
		c.legendLabel(key, y)
		row++
	}
	for _, key := range c.in.Categories.Icon {
		y := rowY(row)
		c.sc.Legend = append(c.sc.Legend, LegendEntry{Kind: category.KindIcon, Key: key, Color: st.Highlight, Y: y})
		c.add(Shape{Kind: KindCircle, Role: RoleLegendSwatch, X: st.Margin, Y: y, R: r / 2, Fill: st.Highlight})
		c.add(Shape{Kind: KindCircle, Role: RoleLegendIcon, X: st.Margin, Y: y, R: r / 2, Pattern: LegendPatternPrefix + key})
		c.legendLabel(key, y)
		row++
	}
}

func (c *composer) legendLabel(text string, y float64) {
	st := c.in.Style
	c.add(Shape{
		Kind: KindText, Role: RoleLegendLabel,
		X: 2 * st.Margin, Y: y + 5,
		Text: text, Anchor: "start", FontSize: st.FontSize,
		Stroke: st.Stroke,
	})
}
