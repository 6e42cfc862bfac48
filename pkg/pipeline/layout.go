package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/qbicsoftware/samplegraph/pkg/cache"
	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/layout"
	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/observability"
)

const cacheKindLayout = "layout"

// graphKey is the part of a lineage graph the layout depends on.
type graphKey struct {
	Nodes []lineage.Node `json:"nodes"`
	Edges []lineage.Edge `json:"edges"`
}

// GraphHash identifies the layout input of g. Sample metadata that doesn't
// reach the layout (progress, amounts, codes) doesn't change the hash.
func GraphHash(g *lineage.Graph) (string, error) {
	return cache.HashJSON(graphKey{Nodes: g.Nodes(), Edges: g.Edges()})
}

// LayoutWithCacheInfo lays out g, serving the result from the cache when the
// same graph was laid out with the same options before.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *lineage.Graph, opts Options) (*layout.Result, bool, error) {
	hash, err := GraphHash(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	key := r.Keyer.LayoutKey(hash, cache.LayoutKeyOpts{
		Engine:   opts.Engine,
		NodeSize: opts.NodeSize(),
		Margin:   opts.Layout.Margin,
		RankSep:  opts.Layout.RankSep,
		NodeSep:  opts.Layout.NodeSep,
	})

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("layout cache read failed", "error", err)
		case hit:
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKindLayout)
				return &cached, true, nil
			}
			r.Logger.Debug("discarding undecodable cached layout", "key", key)
		}
		observability.Cache().OnCacheMiss(ctx, cacheKindLayout)
	}

	res, err := r.layout(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKindLayout, len(data))
		}
	}
	return res, false, nil
}

func (r *Runner) layout(ctx context.Context, g *lineage.Graph, opts Options) (*layout.Result, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Engine, g.NodeCount())
	start := time.Now()

	res, err := r.Service.Layout(ctx, g, opts.Layout)
	hooks.OnLayoutComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout %d nodes", g.NodeCount())
		}
		return nil, err
	}
	return res, nil
}
