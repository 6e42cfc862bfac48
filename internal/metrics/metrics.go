// Package metrics implements the observability hooks with Prometheus
// collectors and serves them for scraping.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qbicsoftware/samplegraph/pkg/observability"
)

const namespace = "samplegraph"

// Registry holds all metrics for the application.
type Registry struct {
	// Pipeline Metrics
	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	LayoutNodes    prometheus.Histogram
	ScenesTotal    prometheus.Counter
	SceneShapes    prometheus.Histogram
	SceneDuration  prometheus.Histogram
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheWrittenBytes  *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Interaction Metrics
	StatePushesTotal prometheus.Counter
	StateSamples     prometheus.Gauge
	ClicksTotal      prometheus.Counter
	Subscribers      prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// NewRegistry creates a registry with every collector registered, plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	r.initInteractionMetrics()
	return r
}

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}

// Install registers r as the pipeline, cache, HTTP and interaction hooks.
func (r *Registry) Install() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
	observability.SetInteractionHooks(r)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

func (r *Registry) initPipelineMetrics() {
	f := promauto.With(r.registry)
	r.LayoutsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "layouts_total",
		Help: "Total number of layout runs",
	}, []string{"engine", "status"})
	r.LayoutDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "layout_duration_seconds",
		Help:    "Layout service latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"engine"})
	r.LayoutNodes = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "layout_nodes",
		Help:    "Nodes per laid-out graph",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
	r.ScenesTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "scenes_total",
		Help: "Total number of composed scenes",
	})
	r.SceneShapes = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "scene_shapes",
		Help:    "Shapes per composed scene",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000},
	})
	r.SceneDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "scene_duration_seconds",
		Help:    "Time from state to composed scene in seconds",
		Buckets: prometheus.DefBuckets,
	})
	r.RendersTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "renders_total",
		Help: "Total number of exports per format",
	}, []string{"format", "status"})
	r.RenderDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "render_duration_seconds",
		Help:    "Export latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "cache_requests_total",
		Help: "Cache lookups by key type and result",
	}, []string{"key_type", "result"})
	r.CacheWrittenBytes = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "cache_written_bytes_total",
		Help: "Bytes written to the cache",
	}, []string{"key_type"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
}

func (r *Registry) initInteractionMetrics() {
	f := promauto.With(r.registry)
	r.StatePushesTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "state_pushes_total",
		Help: "Total number of sample states pushed",
	})
	r.StateSamples = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "state_samples",
		Help: "Samples in the current state",
	})
	r.ClicksTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "clicks_total",
		Help: "Total number of sample clicks",
	})
	r.Subscribers = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "event_subscribers",
		Help: "Connected event stream clients",
	})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// OnLayoutStart implements observability.PipelineHooks.
func (r *Registry) OnLayoutStart(_ context.Context, _ string, nodeCount int) {
	r.LayoutNodes.Observe(float64(nodeCount))
}

// OnLayoutComplete implements observability.PipelineHooks.
func (r *Registry) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	r.LayoutsTotal.WithLabelValues(engine, status(err)).Inc()
	r.LayoutDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// OnSceneComplete implements observability.PipelineHooks.
func (r *Registry) OnSceneComplete(_ context.Context, _ int, shapeCount int, d time.Duration) {
	r.ScenesTotal.Inc()
	r.SceneShapes.Observe(float64(shapeCount))
	r.SceneDuration.Observe(d.Seconds())
}

// OnRenderStart implements observability.PipelineHooks.
func (r *Registry) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements observability.PipelineHooks.
func (r *Registry) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		r.RendersTotal.WithLabelValues(f, status(err)).Inc()
		r.RenderDuration.WithLabelValues(f).Observe(d.Seconds())
	}
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnResponse implements observability.HTTPHooks.
func (r *Registry) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnStatePush implements observability.InteractionHooks.
func (r *Registry) OnStatePush(_ context.Context, sampleCount int) {
	r.StatePushesTotal.Inc()
	r.StateSamples.Set(float64(sampleCount))
}

// OnClick implements observability.InteractionHooks.
func (r *Registry) OnClick(context.Context, string, int) {
	r.ClicksTotal.Inc()
}

// OnSubscribers implements observability.InteractionHooks.
func (r *Registry) OnSubscribers(_ context.Context, n int) {
	r.Subscribers.Set(float64(n))
}

var (
	_ observability.PipelineHooks    = (*Registry)(nil)
	_ observability.CacheHooks       = (*Registry)(nil)
	_ observability.HTTPHooks        = (*Registry)(nil)
	_ observability.InteractionHooks = (*Registry)(nil)
)
