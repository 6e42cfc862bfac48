package render

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/fonts"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale     float64
	iconDir   string
	onMissing func(pattern, file string, err error)
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithIconDir reads icon images from dir instead of the pattern href.
func WithIconDir(dir string) PNGOption {
	return func(r *pngRenderer) { r.iconDir = dir }
}

// WithMissingIcon registers a callback for icons that could not be loaded.
// The pattern is drawn blank either way.
func WithMissingIcon(fn func(pattern, file string, err error)) PNGOption {
	return func(r *pngRenderer) { r.onMissing = fn }
}

// RenderPNG rasterizes sc. Only raster icon files (PNG, JPEG, GIF, BMP,
// TIFF) can be drawn; vector icons are reported as missing.
func RenderPNG(sc *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}

	w := int(math.Ceil(sc.Width * r.scale))
	h := int(math.Ceil(sc.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "scene has no area (%vx%v)", sc.Width, sc.Height)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	icons := r.loadIcons(sc.Patterns)
	for _, sh := range sc.Shapes {
		if err := r.drawShape(dc, sh, icons); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) loadIcons(patterns []scene.Pattern) map[string]image.Image {
	icons := make(map[string]image.Image, len(patterns))
	for _, p := range patterns {
		file := r.iconFile(p.Href)
		if file == "" {
			r.missing(p.ID, p.Href, errors.New(errors.ErrCodeFileNotFound, "no local icon for %q", p.Href))
			continue
		}
		img, err := imaging.Open(file)
		if err != nil {
			r.missing(p.ID, file, err)
			continue
		}
		px := max(1, int(math.Round(p.Size*r.scale)))
		icons[p.ID] = imaging.Fill(img, px, px, imaging.Center, imaging.Lanczos)
	}
	return icons
}

func (r *pngRenderer) iconFile(href string) string {
	if r.iconDir != "" {
		return filepath.Join(r.iconDir, path.Base(href))
	}
	if href == "" || strings.Contains(href, "://") {
		return ""
	}
	return filepath.FromSlash(href)
}

func (r *pngRenderer) missing(pattern, file string, err error) {
	if r.onMissing != nil {
		r.onMissing(pattern, file, err)
	}
}

func (r *pngRenderer) drawShape(dc *gg.Context, sh scene.Shape, icons map[string]image.Image) error {
	s := r.scale
	switch sh.Kind {
	case scene.KindLine:
		dc.DrawLine(sh.X*s, sh.Y*s, sh.X2*s, sh.Y2*s)
		dc.SetColor(parseColor(sh.Stroke, color.Black))
		dc.SetLineWidth(max(sh.StrokeWidth, 1) * s)
		dc.Stroke()

	case scene.KindCircle:
		x, y, rad := sh.X*s, sh.Y*s, sh.R*s
		if sh.Pattern != "" {
			if img, ok := icons[sh.Pattern]; ok {
				dc.DrawCircle(x, y, rad)
				dc.Clip()
				dc.DrawImageAnchored(img, int(math.Round(x)), int(math.Round(y)), 0.5, 0.5)
				dc.ResetClip()
			}
		} else if sh.Fill != "" {
			dc.DrawCircle(x, y, rad)
			dc.SetColor(parseColor(sh.Fill, color.Transparent))
			dc.Fill()
		}
		r.outline(dc, sh, func() { dc.DrawCircle(x, y, rad) })

	case scene.KindArc:
		a := sh.Arc
		if a == nil || a.Span() <= 0 {
			return nil
		}
		trace := func() {
			x, y := sh.X*s, sh.Y*s
			a0, a1 := ggAngle(a.Start), ggAngle(a.End)
			dc.NewSubPath()
			dc.DrawArc(x, y, a.Outer*s, a0, a1)
			dc.DrawArc(x, y, a.Inner*s, a1, a0)
			dc.ClosePath()
		}
		trace()
		dc.SetColor(parseColor(sh.Fill, color.Transparent))
		dc.Fill()
		r.outline(dc, sh, trace)

	case scene.KindText:
		if sh.Text == "" {
			return nil
		}
		face, err := fonts.NewFace(sh.FontSize * s)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "load font")
		}
		defer face.Close()
		dc.SetFontFace(face)
		dc.SetColor(parseColor(sh.Stroke, color.Black))
		ax := 0.0
		if sh.Anchor == "middle" {
			ax = 0.5
		}
		dc.DrawStringAnchored(sh.Text, sh.X*s, sh.Y*s, ax, 0)
	}
	return nil
}

func (r *pngRenderer) outline(dc *gg.Context, sh scene.Shape, trace func()) {
	if sh.Stroke == "" {
		return
	}
	trace()
	dc.SetColor(parseColor(sh.Stroke, color.Black))
	dc.SetLineWidth(r.scale)
	dc.Stroke()
}

// ggAngle converts a clockwise-from-twelve angle in degrees to gg radians,
// which start at three o'clock.
func ggAngle(deg float64) float64 {
	return gg.Radians(deg) - math.Pi/2
}

var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
	"green": "#008000",
	"grey":  "#808080",
	"gray":  "#808080",
	"red":   "#ff0000",
	"blue":  "#0000ff",
}

// parseColor accepts hex colors and the few CSS names the default style
// uses. Anything else falls back to def.
func parseColor(s string, def color.Color) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return def
	}
	return c
}
