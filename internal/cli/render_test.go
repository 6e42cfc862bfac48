package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/qbicsoftware/samplegraph/pkg/cache"
	"github.com/qbicsoftware/samplegraph/pkg/layout"
	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/pipeline"
	"github.com/qbicsoftware/samplegraph/pkg/render"
)

const testProject = `{
  "name": "QTEST",
  "imagePath": "/img/",
  "samples": [
    {"id": "A", "name": "DNA", "childIDs": ["B", "C"]},
    {"id": "B", "name": "Tumor", "leaf": true, "measuredPercent": 40, "amount": "12", "codes": ["QTEST001"]},
    {"id": "C", "name": "Normal", "leaf": true}
  ],
  "factors": {"tissue": ["A", "B"], "all": ["A", "B", "C"]}
}`

// column places nodes in one column without invoking Graphviz.
var column = layout.ServiceFunc(func(_ context.Context, g *lineage.Graph, opts layout.Options) (*layout.Result, error) {
	res := &layout.Result{Nodes: map[string]layout.Position{}}
	for i, n := range g.Nodes() {
		res.Order = append(res.Order, n.ID)
		res.Nodes[n.ID] = layout.Position{ID: n.ID, Label: n.Label, X: opts.Margin + 20, Y: opts.Margin + 20 + 90*float64(i)}
	}
	for _, e := range g.Edges() {
		a, b := res.Nodes[e.From], res.Nodes[e.To]
		res.Routes = append(res.Routes, layout.Route{From: e.From, To: e.To, Points: []layout.Point{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}}})
	}
	return res, nil
})

func writeProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, []byte(testProject), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/project.json", "data/project"},
		{"", "project.yaml", "project"},
		{"out/diagram.svg", "project.json", "out/diagram"},
		{"out/diagram.PNG", "project.json", "out/diagram"},
		{"out/diagram", "project.json", "out/diagram"},
		{"out/diagram.v2", "project.json", "out/diagram.v2"},
	}
	for _, tt := range tests {
		t.Run(tt.output+"|"+tt.input, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []render.Format
		want    map[render.Format]string
	}{
		{"default", "", []render.Format{render.FormatSVG}, map[render.Format]string{render.FormatSVG: "p.svg"}},
		{"single explicit", "x.out", []render.Format{render.FormatPNG}, map[render.Format]string{render.FormatPNG: "x.out"}},
		{"stdout", "-", []render.Format{render.FormatJSON}, map[render.Format]string{render.FormatJSON: "-"}},
		{"several", "out/d.svg", []render.Format{render.FormatSVG, render.FormatJSON}, map[render.Format]string{
			render.FormatSVG:  "out/d.svg",
			render.FormatJSON: "out/d.json",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "p.json", tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestWriteOutputCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.svg")
	if err := writeOutput(path, []byte("<svg/>")); err != nil {
		t.Fatalf("writeOutput() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("file = %q, %v", data, err)
	}
}

func TestRenderOnce(t *testing.T) {
	c := New(io.Discard, LogInfo)
	input := writeProject(t)
	out := filepath.Join(t.TempDir(), "diagram")

	runner := pipeline.NewRunner(cache.NewNullCache(), nil, column, log.New(io.Discard))
	defer runner.Close()

	opts := &renderOpts{
		output:  out,
		formats: []render.Format{render.FormatSVG, render.FormatJSON},
		factor:  "tissue",
		scale:   1,
	}
	if err := c.renderOnce(context.Background(), runner, input, opts); err != nil {
		t.Fatalf("renderOnce() error: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output starts with %q", svg[:min(20, len(svg))])
	}
	if !strings.Contains(string(svg), `data-sample="B"`) || strings.Contains(string(svg), `data-sample="C"`) {
		t.Error("factor tissue should draw A and B only")
	}
	if _, err := os.Stat(out + ".json"); err != nil {
		t.Errorf("json output missing: %v", err)
	}
}

func TestRenderOnceUnknownFactor(t *testing.T) {
	c := New(io.Discard, LogInfo)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, column, log.New(io.Discard))
	defer runner.Close()

	err := c.renderOnce(context.Background(), runner, writeProject(t), &renderOpts{
		formats: []render.Format{render.FormatSVG},
		factor:  "blood",
	})
	if err == nil || !strings.Contains(err.Error(), "FACTOR_NOT_FOUND") {
		t.Errorf("error = %v, want FACTOR_NOT_FOUND", err)
	}
}
