package category

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Category
	}{
		{"icon lower", "dna", Category{KindIcon, "dna"}},
		{"icon padded upper", "  DNA ", Category{KindIcon, "dna"}},
		{"icon inner space", "Small Molecules", Category{KindIcon, "smallmolecules"}},
		{"icon tab", "Pro\tteins", Category{KindIcon, "proteins"}},
		{"generic keeps display name", "Tumor Tissue", Category{KindGeneric, "Tumor Tissue"}},
		{"generic close to icon", "DNA-seq", Category{KindGeneric, "DNA-seq"}},
		{"empty", "", Category{KindNone, ""}},
		{"whitespace only", " \t\n", Category{KindNone, ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	set := Collect([]string{"Tumor", "DNA", "", "dna ", "Blood", "Tumor", "RNA"})

	if got := strings.Join(set.Generic, ","); got != "Tumor,Blood" {
		t.Errorf("Generic = %q", got)
	}
	if got := strings.Join(set.Icon, ","); got != "dna,rna" {
		t.Errorf("Icon = %q", got)
	}
	if set.Len() != 4 {
		t.Errorf("Len() = %d, want 4", set.Len())
	}
}

func TestPaletteSchemes(t *testing.T) {
	small := NewPalette([]string{"a", "b"})
	if small.Color("a") != Category10[0] || small.Color("b") != Category10[1] {
		t.Errorf("small palette should use Category10")
	}
	if small.Color("zzz") != "" {
		t.Error("unknown key should have no color")
	}

	keys := make([]string, 12)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	mid := NewPalette(keys)
	if mid.Color("k1") != Category20[1] {
		t.Errorf("12 keys should use Category20, got %s", mid.Color("k1"))
	}
}

func TestPaletteNeverRepeats(t *testing.T) {
	for _, n := range []int{1, 10, 11, 20, 21, 64} {
		keys := make([]string, n)
		for i := range keys {
			keys[i] = fmt.Sprintf("category-%d", i)
		}
		p := NewPalette(keys)
		seen := make(map[string]string)
		for _, k := range keys {
			c := p.Color(k)
			if c == "" {
				t.Fatalf("n=%d: %s has no color", n, k)
			}
			if other, dup := seen[c]; dup {
				t.Fatalf("n=%d: %s and %s share %s", n, k, other, c)
			}
			seen[c] = k
		}
	}
}

func TestClassifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	whitespace := gen.SliceOf(gen.OneConstOf(" ", "\t", "\n", ""))

	properties.Property("icon names classify the same under case and whitespace", prop.ForAll(
		func(idx int, upper []bool, pad []string) bool {
			key := IconKeys()[idx]
			var b strings.Builder
			for i, r := range key {
				if i < len(pad) {
					b.WriteString(pad[i])
				}
				s := string(r)
				if i < len(upper) && upper[i] {
					s = strings.ToUpper(s)
				}
				b.WriteString(s)
			}
			b.WriteString(strings.Join(pad, ""))
			got := Classify(b.String())
			return got.Kind == KindIcon && got.Key == key
		},
		gen.IntRange(0, len(IconKeys())-1),
		gen.SliceOf(gen.Bool()),
		whitespace,
	))

	properties.Property("blank names have no category", prop.ForAll(
		func(pad []string) bool {
			return Classify(strings.Join(pad, "")).Kind == KindNone
		},
		whitespace,
	))

	properties.Property("collected sets are disjoint and duplicate free", prop.ForAll(
		func(names []string) bool {
			set := Collect(names)
			seen := make(map[string]bool)
			for _, k := range set.Generic {
				if seen["g:"+k] || k == "" {
					return false
				}
				seen["g:"+k] = true
			}
			for _, k := range set.Icon {
				if seen["i:"+k] {
					return false
				}
				if _, ok := IconFiles[k]; !ok {
					return false
				}
				seen["i:"+k] = true
			}
			return true
		},
		gen.SliceOf(gen.OneGenOf(gen.AlphaString(), gen.OneConstOf("DNA", " rna", "Tumor", ""))),
	))

	properties.TestingRun(t)
}
