package fonts

import (
	"strings"
	"testing"
)

func TestMeasurer(t *testing.T) {
	m, err := NewMeasurer(DefaultSize)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}

	if w := m.TextWidth(""); w != 0 {
		t.Errorf("empty width = %v, want 0", w)
	}

	four := m.TextWidth("9999")
	if four <= 0 {
		t.Fatalf("width of 9999 = %v", four)
	}
	if one := m.TextWidth("9"); one >= four {
		t.Errorf("width(9) = %v should be below width(9999) = %v", one, four)
	}
	if m.TextWidth("Tumor tissue") <= m.TextWidth("Tumor") {
		t.Error("longer text should measure wider")
	}
}

func TestMeasurerScalesWithSize(t *testing.T) {
	small, _ := NewMeasurer(10)
	large, _ := NewMeasurer(20)
	if large.TextWidth("proteins") <= small.TextWidth("proteins") {
		t.Error("larger size should measure wider")
	}
}

func TestFaceCached(t *testing.T) {
	a, err := Face(12)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Face(12)
	if a != b {
		t.Error("Face should be cached per size")
	}
}

func TestFontFaceCSS(t *testing.T) {
	css := FontFaceCSS()
	if !strings.Contains(css, FontFamily) || !strings.Contains(css, "base64,") {
		t.Errorf("unexpected CSS prefix: %.80s", css)
	}
}
