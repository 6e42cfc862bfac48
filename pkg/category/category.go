// Package category derives the visual category of a sample from its display
// name.
//
// Five names are icon-backed (dna, rna, peptides, proteins, smallmolecules),
// matched after stripping all whitespace and lower-casing. Any other non-empty
// name is generic and is drawn in a color from a qualitative [Palette]. An
// empty name has no category and never reaches the legend.
//
//	category.Classify("  DNA ")  // {KindIcon, "dna"}
//	category.Classify("Tumor")   // {KindGeneric, "Tumor"}
//	category.Classify(" ")       // {KindNone, ""}
package category

import (
	"strings"
	"unicode"
)

// Kind is the visual encoding of a category.
type Kind int

const (
	KindNone    Kind = iota // empty name: not drawn as a category
	KindIcon                // one of the fixed icon keys
	KindGeneric             // any other name, color-coded
)

func (k Kind) String() string {
	switch k {
	case KindIcon:
		return "icon"
	case KindGeneric:
		return "generic"
	default:
		return "none"
	}
}

// Icon keys.
const (
	IconDNA            = "dna"
	IconRNA            = "rna"
	IconPeptides       = "peptides"
	IconProteins       = "proteins"
	IconSmallMolecules = "smallmolecules"
)

// IconFiles maps each icon key to the asset file appended to the image path.
var IconFiles = map[string]string{
	IconDNA:            "dna_filled.svg",
	IconRNA:            "rna_filled.svg",
	IconPeptides:       "peptide.svg",
	IconProteins:       "protein.png",
	IconSmallMolecules: "mol.png",
}

// IconKeys returns the icon keys in a fixed order.
func IconKeys() []string {
	return []string{IconDNA, IconRNA, IconPeptides, IconProteins, IconSmallMolecules}
}

// Category is the classification of one display name.
type Category struct {
	Kind Kind
	// Key is the normalized name for icons and the verbatim display name for
	// generic categories.
	Key string
}

// Normalize strips every whitespace rune and lower-cases the rest.
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// Classify maps a display name to its category. It never fails.
func Classify(name string) Category {
	norm := Normalize(name)
	if norm == "" {
		return Category{Kind: KindNone}
	}
	if _, ok := IconFiles[norm]; ok {
		return Category{Kind: KindIcon, Key: norm}
	}
	return Category{Kind: KindGeneric, Key: name}
}

// Set is the partition of categories present in one sample collection. Both
// lists keep first-seen order and hold each key once.
type Set struct {
	Generic []string
	Icon    []string
}

// Len is the number of distinct categories, i.e. legend rows.
func (s Set) Len() int { return len(s.Generic) + len(s.Icon) }

// Collect classifies every name and partitions the distinct keys.
func Collect(names []string) Set {
	var set Set
	seen := make(map[Category]bool)
	for _, name := range names {
		c := Classify(name)
		if c.Kind == KindNone || seen[c] {
			continue
		}
		seen[c] = true
		if c.Kind == KindIcon {
			set.Icon = append(set.Icon, c.Key)
		} else {
			set.Generic = append(set.Generic, c.Key)
		}
	}
	return set
}
