package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/qbicsoftware/samplegraph/pkg/fonts"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

const interactionCSS = `
    .interactive { cursor: pointer; }
    text { font-family: %s; }`

// interactionJS sets the hover opacity on the shape under the pointer and
// reports clicks. Propagation stops at the clicked shape so an icon overlay
// and the circle beneath it never both fire.
const interactionJS = `
    (function() {
      var endpoint = %s;
      var svg = document.currentScript ? document.currentScript.ownerSVGElement : null;
      document.querySelectorAll('.interactive').forEach(function(el) {
        el.addEventListener('mouseover', function() { el.setAttribute('opacity', el.getAttribute('data-hover')); });
        el.addEventListener('mouseout', function() { el.setAttribute('opacity', 1); });
        el.addEventListener('click', function(ev) {
          ev.stopPropagation();
          var detail = {
            scene: %s,
            sample_id: el.getAttribute('data-sample'),
            label: el.getAttribute('data-label'),
            codes: JSON.parse(el.getAttribute('data-codes') || '[]')
          };
          (svg || el.ownerSVGElement).dispatchEvent(new CustomEvent('sampleclick', {detail: detail, bubbles: true}));
          if (endpoint) {
            fetch(endpoint, {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(detail)});
          }
        });
      });
    })();`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	endpoint    string
	interactive bool
	embedFont   bool
}

// WithClickEndpoint makes the inline script POST every click as JSON to url.
func WithClickEndpoint(url string) SVGOption {
	return func(r *svgRenderer) { r.endpoint = url }
}

// WithStatic omits the interaction script and data attributes.
func WithStatic() SVGOption { return func(r *svgRenderer) { r.interactive = false } }

// WithoutEmbeddedFont references the font family without embedding it.
func WithoutEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = false } }

// RenderSVG writes sc as a standalone SVG document.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{interactive: true, embedFont: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" preserveAspectRatio="xMinYMin meet" viewBox="0 0 %s %s" width="%s" height="%s" data-scene="%s">`+"\n",
		num(sc.Width), num(sc.Height), num(sc.Width), num(sc.Height), esc(sc.ID))

	r.renderDefs(&buf, sc)
	for _, sh := range sc.Shapes {
		r.renderShape(&buf, sh)
	}
	if r.interactive {
		r.renderScript(&buf, sc)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer, sc *scene.Scene) {
	buf.WriteString("  <defs>\n")
	buf.WriteString("    <style>")
	if r.embedFont {
		buf.WriteString("\n    ")
		buf.WriteString(fonts.FontFaceCSS())
	}
	fmt.Fprintf(buf, interactionCSS, fonts.FallbackFontFamily)
	buf.WriteString("\n    </style>\n")

	for _, p := range sc.Patterns {
		fmt.Fprintf(buf, `    <pattern id="%s" patternUnits="objectBoundingBox" width="1" height="1">`, esc(p.ID))
		fmt.Fprintf(buf, `<image width="%s" height="%s" href="%s" xlink:href="%s"/></pattern>`+"\n",
			num(p.Size), num(p.Size), esc(p.Href), esc(p.Href))
	}
	buf.WriteString("  </defs>\n")
}

func (r *svgRenderer) renderShape(buf *bytes.Buffer, sh scene.Shape) {
	switch sh.Kind {
	case scene.KindLine:
		fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
			num(sh.X), num(sh.Y), num(sh.X2), num(sh.Y2), esc(sh.Stroke), num(sh.StrokeWidth))

	case scene.KindCircle:
		fmt.Fprintf(buf, `  <circle class="%s" cx="%s" cy="%s" r="%s" fill="%s"%s%s/>`+"\n",
			r.class(sh), num(sh.X), num(sh.Y), num(sh.R), fill(sh), stroke(sh), r.binding(sh))

	case scene.KindArc:
		d := sh.Arc.Path()
		if d == "" {
			return
		}
		fmt.Fprintf(buf, `  <path class="%s" d="%s" transform="translate(%s,%s)" fill="%s"%s%s/>`+"\n",
			r.class(sh), d, num(sh.X), num(sh.Y), fill(sh), stroke(sh), r.binding(sh))

	case scene.KindText:
		anchor := sh.Anchor
		if anchor == "" {
			anchor = "start"
		}
		fmt.Fprintf(buf, `  <text class="%s" x="%s" y="%s" font-size="%spx" text-anchor="%s"%s>`,
			sh.Role, num(sh.X), num(sh.Y), num(sh.FontSize), anchor, stroke(sh))
		xml.EscapeText(buf, []byte(sh.Text))
		buf.WriteString("</text>\n")
	}
}

func fill(sh scene.Shape) string {
	if sh.Pattern != "" {
		return "url(#" + esc(sh.Pattern) + ")"
	}
	if sh.Fill == "" {
		return "none"
	}
	return esc(sh.Fill)
}

func stroke(sh scene.Shape) string {
	if sh.Stroke == "" {
		return ""
	}
	return ` stroke="` + esc(sh.Stroke) + `"`
}

func (r *svgRenderer) class(sh scene.Shape) string {
	if r.interactive && sh.Interactive() {
		return string(sh.Role) + " interactive"
	}
	return string(sh.Role)
}

// binding renders the data attributes the script reads. Shapes without a
// binding get none and are never wired.
func (r *svgRenderer) binding(sh scene.Shape) string {
	if !r.interactive || sh.Binding == nil {
		return ""
	}
	b := sh.Binding
	codes, _ := json.Marshal(nonNil(b.Codes))
	return fmt.Sprintf(` data-sample="%s" data-label="%s" data-codes="%s" data-hover="%s"`,
		esc(b.SampleID), esc(b.Label), esc(string(codes)), num(b.HoverOpacity))
}

func (r *svgRenderer) renderScript(buf *bytes.Buffer, sc *scene.Scene) {
	endpoint, _ := json.Marshal(r.endpoint)
	id, _ := json.Marshal(sc.ID)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
		fmt.Sprintf(interactionJS, endpoint, id))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func esc(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
