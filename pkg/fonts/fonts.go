// Package fonts provides the single font face used both to measure label text
// during canvas sizing and to draw it in the SVG and PNG sinks.
//
// Measuring and drawing with the same face is what keeps the legend from
// overlapping the graph, so the face is embedded (Go Regular from
// golang.org/x/image) instead of relying on whatever "sans-serif" resolves to
// in a viewer.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name declared by [FontFaceCSS].
const FontFamily = "Go Regular"

// FallbackFontFamily is used in SVG output after the embedded family.
const FallbackFontFamily = `'Go Regular', sans-serif`

// DefaultSize is the label size in pixels.
const DefaultSize = 14.0

// TTF returns the embedded font data.
func TTF() []byte {
	return goregular.TTF
}

var (
	parsed     *opentype.Font
	parsedErr  error
	parsedOnce sync.Once

	b64     string
	b64Once sync.Once

	faces   = map[float64]font.Face{}
	facesMu sync.Mutex
)

func parse() (*opentype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parsedErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parsedErr
}

// Face returns the font face at size pixels (72 DPI, so points == pixels).
// Faces are cached per size and shared; callers drawing concurrently should
// use [NewFace].
func Face(size float64) (font.Face, error) {
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	face, err := NewFace(size)
	if err != nil {
		return nil, err
	}
	faces[size] = face
	return face, nil
}

// NewFace returns an uncached face at size pixels.
func NewFace(size float64) (font.Face, error) {
	f, err := parse()
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

// Measurer measures text advance widths with one face.
type Measurer struct {
	face font.Face
	mu   sync.Mutex
	size float64
}

// NewMeasurer returns a measurer for the embedded face at size pixels.
func NewMeasurer(size float64) (*Measurer, error) {
	face, err := Face(size)
	if err != nil {
		return nil, err
	}
	return &Measurer{face: face, size: size}, nil
}

// TextWidth returns the advance width of s in pixels.
func (m *Measurer) TextWidth(s string) float64 {
	// font.Face implementations are not safe for concurrent use.
	m.mu.Lock()
	defer m.mu.Unlock()
	adv := font.MeasureString(m.face, s)
	return float64(adv) / 64
}

// Size returns the pixel size the measurer was built for.
func (m *Measurer) Size() float64 { return m.size }

// FontFaceCSS returns an @font-face rule embedding the font as base64 so SVG
// viewers draw with the measured face. The encoding is computed once.
func FontFaceCSS() string {
	b64Once.Do(func() {
		b64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return fmt.Sprintf("@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
		FontFamily, b64)
}
