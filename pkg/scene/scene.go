// Package scene describes one rendered lineage diagram as plain data.
//
// A [Scene] is the complete output of a draw pass: the icon patterns, every
// shape in paint order and the legend. It carries no behavior that depends on
// global state; clicks resolve through the [Binding] captured on the shape
// itself. Sinks in pkg/render turn a Scene into SVG, PNG or JSON, and the host
// keeps the most recent Scene and swaps it whole on every render.
package scene

import (
	"slices"

	"github.com/qbicsoftware/samplegraph/pkg/category"
)

// Kind is the geometric type of a shape.
type Kind string

const (
	KindCircle Kind = "circle"
	KindLine   Kind = "line"
	KindArc    Kind = "arc"
	KindText   Kind = "text"
)

// Role tells sinks what a shape stands for.
type Role string

const (
	RoleEdge         Role = "edge"
	RoleNode         Role = "node"
	RoleIcon         Role = "icon"
	RoleDone         Role = "done"
	RoleMissing      Role = "missing"
	RoleAmount       Role = "amount"
	RoleLegendSwatch Role = "legend-swatch"
	RoleLegendIcon   Role = "legend-icon"
	RoleLegendLabel  Role = "legend-label"
)

// Pattern is an image fill referenced by shapes through its ID.
type Pattern struct {
	ID   string  `json:"id"`
	Key  string  `json:"key"`
	Size float64 `json:"size"`
	Href string  `json:"href"`
}

// Arc is an annular sector. Angles are degrees, 0 at twelve o'clock,
// increasing clockwise.
type Arc struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}

// Span is End - Start.
func (a Arc) Span() float64 { return a.End - a.Start }

// Binding is the interaction payload of one shape. It is a value copy of the
// sample fields a click reports.
type Binding struct {
	SampleID     string   `json:"sample_id"`
	Label        string   `json:"label"`
	Codes        []string `json:"codes"`
	HoverOpacity float64  `json:"hover_opacity"`
}

// Shape is one drawable element.
//
// Circles and arcs are centered on (X, Y). Lines run from (X, Y) to (X2, Y2).
// Text is anchored at (X, Y).
type Shape struct {
	Kind Kind `json:"kind"`
	Role Role `json:"role"`

	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	X2  float64 `json:"x2,omitempty"`
	Y2  float64 `json:"y2,omitempty"`
	R   float64 `json:"r,omitempty"`
	Arc *Arc    `json:"arc,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Pattern     string  `json:"pattern,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`

	Text     string  `json:"text,omitempty"`
	Anchor   string  `json:"anchor,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`

	Binding *Binding `json:"binding,omitempty"`
}

// Interactive reports whether the shape reacts to hover and click.
func (s Shape) Interactive() bool { return s.Binding != nil }

// LegendEntry is one legend row.
type LegendEntry struct {
	Kind  category.Kind `json:"kind"`
	Key   string        `json:"key"`
	Color string        `json:"color"`
	Y     float64       `json:"y"`
}

// Scene is the complete, immutable description of one render.
type Scene struct {
	ID       string        `json:"id"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Patterns []Pattern     `json:"patterns"`
	Shapes   []Shape       `json:"shapes"`
	Legend   []LegendEntry `json:"legend"`
}

// ClickEvent is what a click on an interactive shape emits.
type ClickEvent struct {
	SampleID string   `json:"sample_id"`
	Label    string   `json:"label"`
	Codes    []string `json:"codes"`
}

// Click returns the event for a click on shape i. Non-interactive shapes and
// out-of-range indices emit nothing.
func (s *Scene) Click(i int) (ClickEvent, bool) {
	if i < 0 || i >= len(s.Shapes) {
		return ClickEvent{}, false
	}
	b := s.Shapes[i].Binding
	if b == nil {
		return ClickEvent{}, false
	}
	return ClickEvent{SampleID: b.SampleID, Label: b.Label, Codes: slices.Clone(b.Codes)}, true
}

// Count returns how many shapes have the given role.
func (s *Scene) Count(role Role) int {
	n := 0
	for _, sh := range s.Shapes {
		if sh.Role == role {
			n++
		}
	}
	return n
}

// ByRole returns the shapes with the given role in paint order.
func (s *Scene) ByRole(role Role) []Shape {
	var out []Shape
	for _, sh := range s.Shapes {
		if sh.Role == role {
			out = append(out, sh)
		}
	}
	return out
}

// Pattern returns the pattern with the given ID.
func (s *Scene) Pattern(id string) (Pattern, bool) {
	for _, p := range s.Patterns {
		if p.ID == id {
			return p, true
		}
	}
	return Pattern{}, false
}
