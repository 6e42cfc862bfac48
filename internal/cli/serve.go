package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qbicsoftware/samplegraph/internal/metrics"
	"github.com/qbicsoftware/samplegraph/pkg/buildinfo"
	"github.com/qbicsoftware/samplegraph/pkg/host"
	"github.com/qbicsoftware/samplegraph/pkg/pipeline"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

type serveOpts struct {
	addr      string
	project   string
	factor    string
	imagePath string
	assetsDir string
	static    bool
	metrics   bool
	watch     bool
	noCache   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve [project]",
		Short: "Serve the diagram over HTTP with click reporting",
		Long: `Run the host server. Clients push sample state to PUT /api/state or pick a
factor of the loaded project with PUT /api/factor/{name}. The current scene is
served at /api/scene.svg, .png and .json, clicks are posted to
/api/events/click and fanned out to websocket subscribers of /api/events.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.project = args[0]
			}
			srv := c.Config.Server
			if opts.addr == "" {
				opts.addr = srv.Addr
			}
			if opts.imagePath == "" {
				opts.imagePath = srv.ImagePath
			}
			if opts.assetsDir == "" {
				opts.assetsDir = srv.AssetsDir
			}
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.factor, "factor", "", "experimental factor shown first")
	cmd.Flags().StringVar(&opts.imagePath, "image-path", "", "icon base path for states that carry none")
	cmd.Flags().StringVar(&opts.assetsDir, "assets", "", "directory served under the image path")
	cmd.Flags().BoolVar(&opts.static, "static", false, "serve SVGs without the interaction script")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the project file when it changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	hopts := host.Options{
		Render: c.renderOptions(),
		Export: pipeline.ExportOptions{
			Static:  opts.static,
			Scale:   c.Config.Render.Scale,
			IconDir: c.Config.Render.IconDir,
		},
		ImagePath:      opts.imagePath,
		AssetsDir:      opts.assetsDir,
		AllowedOrigins: c.Config.Server.Origins,
		OnClick: func(_ context.Context, ev scene.ClickEvent, details []host.Detail) {
			c.Logger.Info("sample clicked", "sample", ev.SampleID, "label", ev.Label, "details", len(details))
		},
	}
	if opts.metrics {
		reg := metrics.DefaultRegistry()
		reg.Install()
		hopts.Metrics = reg.Handler()
	}

	srv := host.New(runner, c.Logger, hopts)
	c.Logger.Debug("starting host server", "version", buildinfo.Short(), "metrics", opts.metrics, "static", opts.static)

	if opts.project != "" {
		load := func() error {
			p, err := sample.Load(opts.project)
			if err != nil {
				return err
			}
			if err := srv.SetProject(ctx, p, opts.factor); err != nil {
				return err
			}
			printSuccess("Loaded %s (%d samples, %d factors)", opts.project, len(p.Samples), len(p.Factors))
			return nil
		}
		if err := load(); err != nil {
			return err
		}
		if opts.watch {
			go func() {
				if err := c.watch(ctx, opts.project, load); err != nil {
					c.Logger.Error("watch stopped", "error", err)
				}
			}()
		}
	}

	printInfo("Listening on %s", StyleLink.Render(fmt.Sprintf("http://%s/", displayAddr(opts.addr))))
	return srv.ListenAndServe(ctx, opts.addr)
}

// displayAddr turns a listen address into a host:port a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
