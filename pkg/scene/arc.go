package scene

import (
	"fmt"
	"math"
	"strings"
)

const fullTurn = 360.0

// arcEpsilon is the tolerance below which a span counts as empty or full.
const arcEpsilon = 1e-9

// ArcPoint returns the point at angle deg on a circle of radius r centered at
// the origin, using the clockwise-from-twelve convention of [Arc].
func ArcPoint(r, deg float64) (x, y float64) {
	rad := deg * math.Pi / 180
	return r * math.Sin(rad), -r * math.Cos(rad)
}

// Path returns the SVG path data of the annular sector, relative to its
// center. A span of a full turn yields a closed ring.
func (a Arc) Path() string {
	span := a.Span()
	if span <= arcEpsilon {
		return ""
	}
	if span >= fullTurn-arcEpsilon {
		return ringPath(a.Inner, a.Outer)
	}

	large := 0
	if span > 180 {
		large = 1
	}
	ox0, oy0 := ArcPoint(a.Outer, a.Start)
	ox1, oy1 := ArcPoint(a.Outer, a.End)
	ix1, iy1 := ArcPoint(a.Inner, a.End)
	ix0, iy0 := ArcPoint(a.Inner, a.Start)

	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", num(ox0), num(oy0))
	fmt.Fprintf(&b, "A%s,%s,0,%d,1,%s,%s", num(a.Outer), num(a.Outer), large, num(ox1), num(oy1))
	fmt.Fprintf(&b, "L%s,%s", num(ix1), num(iy1))
	fmt.Fprintf(&b, "A%s,%s,0,%d,0,%s,%s", num(a.Inner), num(a.Inner), large, num(ix0), num(iy0))
	b.WriteString("Z")
	return b.String()
}

func ringPath(inner, outer float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M0,%s", num(-outer))
	fmt.Fprintf(&b, "A%s,%s,0,1,1,0,%s", num(outer), num(outer), num(outer))
	fmt.Fprintf(&b, "A%s,%s,0,1,1,0,%s", num(outer), num(outer), num(-outer))
	fmt.Fprintf(&b, "M0,%s", num(-inner))
	fmt.Fprintf(&b, "A%s,%s,0,1,0,0,%s", num(inner), num(inner), num(inner))
	fmt.Fprintf(&b, "A%s,%s,0,1,0,0,%s", num(inner), num(inner), num(-inner))
	b.WriteString("Z")
	return b.String()
}

func num(f float64) string {
	s := fmt.Sprintf("%.3f", f)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
