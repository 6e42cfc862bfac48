// Package pipeline runs the sample-lineage render pipeline used by both the
// CLI and the host server.
//
// # Architecture
//
// One render walks five stages:
//
//  1. Check: report duplicate ids and dangling children (never fatal)
//  2. Build: samples → [lineage.Graph] with its render-scoped lookup
//  3. Layout: positions and edge routes from a [layout.Service], cached
//  4. Bounds: canvas size fitted to the graph and the legend
//  5. Compose: the [scene.Scene] every sink draws
//
// Export then turns a scene into SVG, PNG or JSON artifacts.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, layout.NewGraphviz(), logger)
//	defer runner.Close()
//
//	res, err := runner.Render(ctx, state, pipeline.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	artifacts, err := runner.Export(ctx, res.Scene, []render.Format{render.FormatSVG}, pipeline.ExportOptions{})
package pipeline

import (
	"time"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/layout"
	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

const (
	// DefaultEngine is the only layout engine the Graphviz service runs.
	DefaultEngine = "dot"

	// DefaultMinWidth is the narrowest canvas ever produced.
	DefaultMinWidth = 300.0

	// DefaultTTL is how long layouts and artifacts stay cached.
	DefaultTTL = 7 * 24 * time.Hour
)

// Options configures one render.
type Options struct {
	Style    scene.Style    `json:"style"`
	Layout   layout.Options `json:"layout"`
	Engine   string         `json:"engine,omitempty"`
	MinWidth float64        `json:"min_width,omitempty"`

	// ImagePath overrides the icon base path of the state when non-empty.
	ImagePath string `json:"image_path,omitempty"`

	// SceneID names the scene; a fresh id is generated when empty.
	SceneID string `json:"scene_id,omitempty"`

	// Refresh skips cache reads; fresh results are still written.
	Refresh bool `json:"refresh,omitempty"`
}

// DefaultOptions returns the standard diagram settings.
func DefaultOptions() Options {
	return Options{
		Style:    scene.DefaultStyle(),
		Layout:   layout.DefaultOptions(),
		Engine:   DefaultEngine,
		MinWidth: DefaultMinWidth,
	}
}

// ValidateAndSetDefaults fills zero values and rejects unusable settings.
func (o *Options) ValidateAndSetDefaults() error {
	def := DefaultOptions()
	if o.Style == (scene.Style{}) {
		o.Style = def.Style
	}
	if o.Layout == (layout.Options{}) {
		o.Layout = def.Layout
	}
	if o.Engine == "" {
		o.Engine = def.Engine
	}
	if o.MinWidth == 0 {
		o.MinWidth = def.MinWidth
	}

	if o.Engine != DefaultEngine {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported layout engine %q", o.Engine)
	}
	if o.Style.Radius <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "radius must be positive, got %v", o.Style.Radius)
	}
	if o.Style.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %v", o.Style.FontSize)
	}
	return errors.ValidateImagePath(o.ImagePath)
}

// NodeSize is the diameter every node is laid out with.
func (o Options) NodeSize() float64 { return 2 * o.Style.Radius }

// Result is the outcome of one render.
type Result struct {
	Scene  *scene.Scene
	Graph  *lineage.Graph
	Layout *layout.Result
	Bounds layout.Bounds
	// Issues are the tolerated anomalies found in the input.
	Issues []sample.Issue

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds render statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	ShapeCount  int
	LayoutTime  time.Duration
	ComposeTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
}
