package pipeline

import (
	"context"
	"time"

	"github.com/qbicsoftware/samplegraph/pkg/cache"
	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/observability"
	"github.com/qbicsoftware/samplegraph/pkg/render"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

const cacheKindArtifact = "artifact"

// ExportOptions configures the sinks.
type ExportOptions struct {
	// ClickEndpoint is where the SVG script POSTs clicks. Empty disables
	// the POST; the sampleclick DOM event still fires.
	ClickEndpoint string
	// Static drops the SVG interaction script and data attributes.
	Static bool
	// Scale is the PNG resolution factor (default 2).
	Scale float64
	// IconDir holds local icon files for PNG export.
	IconDir string
	// ArcPaths adds SVG path data for arcs to JSON output.
	ArcPaths bool
}

// Export renders sc in every requested format.
func Export(sc *scene.Scene, formats []render.Format, opts ExportOptions, onMissingIcon func(pattern, file string, err error)) (map[render.Format][]byte, error) {
	if sc == nil {
		return nil, errors.New(errors.ErrCodeNoScene, "nothing has been rendered yet")
	}
	artifacts := make(map[render.Format][]byte, len(formats))
	for _, f := range formats {
		data, err := exportOne(sc, f, opts, onMissingIcon)
		if err != nil {
			return nil, err
		}
		artifacts[f] = data
	}
	return artifacts, nil
}

func exportOne(sc *scene.Scene, f render.Format, opts ExportOptions, onMissingIcon func(string, string, error)) ([]byte, error) {
	switch f {
	case render.FormatSVG:
		var svgOpts []render.SVGOption
		if opts.Static {
			svgOpts = append(svgOpts, render.WithStatic())
		} else if opts.ClickEndpoint != "" {
			svgOpts = append(svgOpts, render.WithClickEndpoint(opts.ClickEndpoint))
		}
		return render.RenderSVG(sc, svgOpts...), nil

	case render.FormatPNG:
		pngOpts := []render.PNGOption{render.WithScale(opts.Scale)}
		if opts.IconDir != "" {
			pngOpts = append(pngOpts, render.WithIconDir(opts.IconDir))
		}
		if onMissingIcon != nil {
			pngOpts = append(pngOpts, render.WithMissingIcon(onMissingIcon))
		}
		return render.RenderPNG(sc, pngOpts...)

	case render.FormatJSON:
		var jsonOpts []render.JSONOption
		if opts.ArcPaths {
			jsonOpts = append(jsonOpts, render.WithArcPaths())
		}
		data, err := render.RenderJSON(sc, jsonOpts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode scene")
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
}

// Export renders sc, caching rasterized output. PNG artifacts are keyed by
// the scene without its id, so a host serving the same PNG to several
// clients and repeated CLI runs over unchanged input rasterize once. SVG and
// JSON embed the scene id and are rendered directly.
func (r *Runner) Export(ctx context.Context, sc *scene.Scene, formats []render.Format, opts ExportOptions) (map[render.Format][]byte, error) {
	if sc == nil {
		return nil, errors.New(errors.ErrCodeNoScene, "nothing has been rendered yet")
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, names)
	start := time.Now()

	artifacts, err := r.export(ctx, sc, formats, opts)
	hooks.OnRenderComplete(ctx, names, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("rendered outputs", "formats", names, "duration", time.Since(start))
	return artifacts, nil
}

func (r *Runner) export(ctx context.Context, sc *scene.Scene, formats []render.Format, opts ExportOptions) (map[render.Format][]byte, error) {
	anon := *sc
	anon.ID = ""
	sceneHash, err := cache.HashJSON(&anon)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}
	onMissing := func(pattern, file string, err error) {
		r.Logger.Warn("icon not drawn", "pattern", pattern, "file", file, "error", err)
	}

	artifacts := make(map[render.Format][]byte, len(formats))
	for _, f := range formats {
		if !cacheable(f) {
			data, err := exportOne(sc, f, opts, onMissing)
			if err != nil {
				return nil, err
			}
			artifacts[f] = data
			continue
		}
		key := r.Keyer.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{
			Format: string(f),
			Scale:  opts.Scale,
			Static: opts.Static,
		})
		// The click endpoint and icon dir change the bytes but are fixed
		// for the lifetime of a process, so they stay out of the key.
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cacheKindArtifact)
			artifacts[f] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, cacheKindArtifact)

		data, err := exportOne(sc, f, opts, onMissing)
		if err != nil {
			return nil, err
		}
		artifacts[f] = data
		if err := r.Cache.Set(ctx, key, data, r.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, cacheKindArtifact, len(data))
		}
	}
	return artifacts, nil
}

// cacheable reports whether f's bytes are independent of the scene id.
func cacheable(f render.Format) bool { return f == render.FormatPNG }
