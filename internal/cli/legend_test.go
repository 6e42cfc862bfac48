package cli

import (
	"strings"
	"testing"

	"github.com/qbicsoftware/samplegraph/pkg/category"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

func TestLegendRows(t *testing.T) {
	st := sample.State{Project: map[string]sample.Sample{
		"A": {ID: "A", Name: "DNA", ChildIDs: []string{"B", "C", "X"}},
		"B": {ID: "B", Name: "Tumor", Leaf: true},
		"C": {ID: "C", Name: "Normal", Leaf: true},
		"D": {ID: "D", Name: "Tumor", Leaf: true},
		"E": {ID: "E", Name: " Small Molecules", Leaf: true},
	}}

	rows := legendRows(st, 40)
	want := []legendRow{
		{Kind: category.KindGeneric, Key: "Tumor", Color: category.Category10[0]},
		{Kind: category.KindGeneric, Key: "Normal", Color: category.Category10[1]},
		{Kind: category.KindIcon, Key: category.IconDNA, File: "dna_filled.svg"},
		{Kind: category.KindIcon, Key: category.IconSmallMolecules, File: "mol.png"},
	}
	if len(rows) != len(want) {
		t.Fatalf("legendRows() = %+v, want %d rows", rows, len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestLegendTable(t *testing.T) {
	out := legendTable([]legendRow{
		{Kind: category.KindGeneric, Key: "Tumor", Color: "#1f77b4"},
		{Kind: category.KindIcon, Key: "dna", File: "dna_filled.svg"},
	}).Render()
	for _, want := range []string{"Category", "Tumor", "#1f77b4", "dna_filled.svg", "generic", "icon"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
