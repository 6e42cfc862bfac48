package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qbicsoftware/samplegraph/pkg/cache"
	"github.com/qbicsoftware/samplegraph/pkg/category"
	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/fonts"
	"github.com/qbicsoftware/samplegraph/pkg/layout"
	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/observability"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

// Runner executes renders with layout caching.
//
// Renders are serialized: a Runner never composes two scenes at once, so two
// state pushes can't interleave. Every render builds its own graph and
// lookup; the Runner keeps no render results.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Service layout.Service
	Logger  *log.Logger
	TTL     time.Duration

	mu sync.Mutex
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If svc is nil, the Graphviz service is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, svc layout.Service, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if svc == nil {
		svc = layout.NewGraphviz()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Service: svc,
		Logger:  logger,
		TTL:     DefaultTTL,
	}
}

// Render turns one pushed state into a scene.
func (r *Runner) Render(ctx context.Context, st sample.State, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	samples := st.Samples()
	res := &Result{Issues: sample.Check(samples)}
	for _, is := range res.Issues {
		switch is.Kind {
		case "dangling-child":
			r.Logger.Warn("child has no sample record", "sample", is.SampleID, "child", is.Ref)
		default:
			r.Logger.Warn("duplicate sample id", "sample", is.SampleID)
		}
	}

	g := lineage.Build(samples, opts.NodeSize())
	res.Graph = g
	res.Stats.NodeCount = g.NodeCount()
	res.Stats.EdgeCount = g.EdgeCount()
	r.Logger.Debug("built lineage graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	layoutStart := time.Now()
	lo, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	res.Layout = lo
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.CacheInfo.LayoutHit = hit
	r.Logger.Info("computed layout",
		"nodes", len(lo.Nodes),
		"routes", len(lo.Routes),
		"cached", hit,
		"duration", res.Stats.LayoutTime)

	composeStart := time.Now()
	cats := category.Collect(g.Labels())
	m, err := fonts.NewMeasurer(opts.Style.FontSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	res.Bounds = layout.Derive(lo, m, layout.BoundsOptions{
		Radius:   opts.Style.Radius,
		MinWidth: opts.MinWidth,
	}, cats.Len())

	imagePath := st.ImagePath
	if opts.ImagePath != "" {
		imagePath = opts.ImagePath
	}
	res.Scene = scene.Compose(scene.Input{
		ID:         opts.SceneID,
		Graph:      g,
		Layout:     lo,
		Bounds:     res.Bounds,
		Categories: cats,
		Palette:    category.NewPalette(cats.Generic),
		ImagePath:  imagePath,
		Style:      opts.Style,
	})
	res.Stats.ComposeTime = time.Since(composeStart)
	res.Stats.ShapeCount = len(res.Scene.Shapes)
	observability.Pipeline().OnSceneComplete(ctx, g.NodeCount(), res.Stats.ShapeCount, res.Stats.ComposeTime)

	r.Logger.Info("composed scene",
		"id", res.Scene.ID,
		"width", res.Bounds.Width,
		"height", res.Bounds.Height,
		"shapes", res.Stats.ShapeCount,
		"legend", cats.Len(),
		"duration", res.Stats.ComposeTime)

	return res, nil
}

// Close releases the cache and, when it holds resources, the layout service.
func (r *Runner) Close() error {
	if c, ok := r.Service.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			r.Logger.Warn("close layout service", "error", err)
		}
	}
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
