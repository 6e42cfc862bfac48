package category

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Category10 is the 10-color qualitative scheme used while at most ten
// generic categories are present.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Category20 is the paired 20-color scheme used for 11 to 20 categories.
var Category20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// goldenAngle spreads generated hues so neighbours stay far apart.
const goldenAngle = 137.50776405003785

// Palette assigns one color per generic category key.
//
// Up to len(Category10) keys use Category10, up to len(Category20) keys use
// Category20. Past that, Category20 is kept for the first twenty keys and the
// rest get hues generated in HCL space, so colors never repeat.
type Palette struct {
	colors map[string]string
}

// NewPalette assigns colors to keys in order. Duplicate keys keep their first
// color.
func NewPalette(keys []string) *Palette {
	scheme := Category10
	if len(keys) > len(Category10) {
		scheme = Category20
	}

	p := &Palette{colors: make(map[string]string, len(keys))}
	used := make(map[string]bool, len(keys))
	i := 0
	for _, k := range keys {
		if _, ok := p.colors[k]; ok {
			continue
		}
		var c string
		if i < len(scheme) {
			c = scheme[i]
		} else {
			c = generated(i-len(scheme), used)
		}
		p.colors[k] = c
		used[c] = true
		i++
	}
	return p
}

// Color returns the color for key, or "" if the key was not assigned.
func (p *Palette) Color(key string) string {
	return p.colors[key]
}

// Len returns the number of assigned keys.
func (p *Palette) Len() int { return len(p.colors) }

// generated returns the n-th overflow color that is not already in use.
func generated(n int, used map[string]bool) string {
	for attempt := 0; ; attempt++ {
		h := math.Mod(float64(n+attempt*7)*goldenAngle+15, 360)
		l := 0.55 + 0.1*float64((n+attempt)%3)
		hex := colorful.Hcl(h, 0.45, l).Clamped().Hex()
		if !used[hex] {
			return hex
		}
	}
}
