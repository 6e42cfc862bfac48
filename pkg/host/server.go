// Package host serves the lineage diagram over HTTP.
//
// A client pushes the sample state (PUT /api/state) or selects an
// experimental factor of the loaded project (PUT /api/factor/{name}); the
// server renders it and atomically replaces the current scene. The scene is
// served as SVG, PNG or JSON. The interactive SVG posts clicks back to
// POST /api/events/click, which resolves the clicked samples' details from
// the render that produced the scene and fans the event out to every
// websocket subscriber of GET /api/events.
package host

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/pipeline"
	"github.com/qbicsoftware/samplegraph/pkg/render"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

// ClickPath is the route the interactive SVG posts clicks to.
const ClickPath = "/api/events/click"

// ClickHandler receives every click after its details were resolved.
type ClickHandler func(ctx context.Context, ev scene.ClickEvent, details []Detail)

// Options configures a Server.
type Options struct {
	// Render configures every render; its ImagePath overrides pushed states.
	Render pipeline.Options
	// Export configures the sinks. ClickEndpoint defaults to ClickPath.
	Export pipeline.ExportOptions
	// ImagePath is used for pushed states that carry none.
	ImagePath string
	// AssetsDir, when set, is served under ImagePath.
	AssetsDir string
	// AllowedOrigins are the origin prefixes accepted for websocket
	// upgrades. Empty allows same-host origins only.
	AllowedOrigins []string
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
	// OnClick is called for every click.
	OnClick ClickHandler
}

// view is one completed render. It is never modified after it is stored.
type view struct {
	scene  *scene.Scene
	graph  *lineage.Graph
	issues []sample.Issue
	factor string
}

// Server is the host HTTP server.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options

	current atomic.Pointer[view]
	project atomic.Pointer[sample.Project]
	events  *hub
	router  chi.Router
}

// New creates a server rendering with runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Export.ClickEndpoint == "" && !opts.Export.Static {
		opts.Export.ClickEndpoint = ClickPath
	}
	s := &Server{
		runner: runner,
		logger: logger,
		opts:   opts,
	}
	s.events = newHub(logger, opts.AllowedOrigins)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Put("/state", s.handleState)
		r.Get("/scene.svg", s.handleScene(render.FormatSVG))
		r.Get("/scene.png", s.handleScene(render.FormatPNG))
		r.Get("/scene.json", s.handleScene(render.FormatJSON))
		r.Get("/factors", s.handleFactors)
		r.Put("/factor/{name}", s.handleFactor)
		r.Post("/events/click", s.handleClick)
		r.Get("/events", s.events.serve)
	})
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	if s.opts.AssetsDir != "" && s.opts.ImagePath != "" && s.opts.ImagePath[0] == '/' {
		prefix := s.opts.ImagePath
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(s.opts.AssetsDir))))
	}
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// SetProject loads p as the project whose factors can be selected and
// renders factor (every sample when empty).
func (s *Server) SetProject(ctx context.Context, p *sample.Project, factor string) error {
	s.project.Store(p)
	st, err := p.State(factor)
	if err != nil {
		return err
	}
	_, err = s.show(ctx, st, factor)
	return err
}

// Scene returns the current scene, or nil before the first render.
func (s *Server) Scene() *scene.Scene {
	if v := s.current.Load(); v != nil {
		return v.scene
	}
	return nil
}

// show renders st and replaces the current view.
func (s *Server) show(ctx context.Context, st sample.State, factor string) (*view, error) {
	if st.ImagePath == "" {
		st.ImagePath = s.opts.ImagePath
	}
	res, err := s.runner.Render(ctx, st, s.opts.Render)
	if err != nil {
		return nil, err
	}
	v := &view{scene: res.Scene, graph: res.Graph, issues: res.Issues, factor: factor}
	s.current.Store(v)
	s.events.broadcast(newSceneMessage(v))
	return v, nil
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and disconnects event subscribers.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errc:
		s.events.close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.events.close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
