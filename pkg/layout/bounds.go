package layout

// Measurer measures rendered text width in pixels. The same face and size
// must be used by whatever later draws the text.
type Measurer interface {
	TextWidth(s string) float64
}

// AmountSample is the widest amount label the graph width reserves room for.
const AmountSample = "9999"

// BoundsOptions holds the drawing constants the canvas size depends on.
type BoundsOptions struct {
	Radius   float64 // node circle radius
	MinWidth float64 // canvas width floor
}

// Bounds is the extent of the laid-out graph plus the legend below it.
type Bounds struct {
	MaxX, MaxY   float64
	LongestLabel string

	GraphWidth  float64
	LegendWidth float64
	// LegendY is the top of the legend block.
	LegendY float64
	// LegendRowHeight is the vertical distance between legend rows.
	LegendRowHeight float64
	LegendRows      int

	Width, Height float64
}

// Derive scans the positioned nodes with a non-empty label for the largest
// coordinates and the longest label, then sizes the canvas:
//
//	graphWidth  = maxX + r + width("9999") + 20
//	legendWidth = r/2 + 2*width(longestLabel) + 20
//	width       = max(minWidth, legendWidth, graphWidth)
//	height      = maxY + r + 20 + legendRows*(rowHeight + 10), rowHeight = r + 5
//
// legendRows is the number of distinct categories present.
func Derive(res *Result, m Measurer, opts BoundsOptions, legendRows int) Bounds {
	r := opts.Radius
	b := Bounds{LongestLabel: "x", LegendRows: legendRows, LegendRowHeight: r + 5}

	for _, p := range res.Positions() {
		if p.Label == "" {
			continue
		}
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
		if len([]rune(p.Label)) > len([]rune(b.LongestLabel)) {
			b.LongestLabel = p.Label
		}
	}

	b.GraphWidth = b.MaxX + r + m.TextWidth(AmountSample) + 20
	b.LegendWidth = r/2 + 2*m.TextWidth(b.LongestLabel) + 20
	b.Width = max(opts.MinWidth, b.LegendWidth, b.GraphWidth)

	b.LegendY = b.MaxY + r + 20
	b.Height = b.LegendY + float64(legendRows)*(b.LegendRowHeight+10)
	return b
}
