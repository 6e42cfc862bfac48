package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/pipeline"
	"github.com/qbicsoftware/samplegraph/pkg/render"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string          // output file (one format) or base path (several)
	formats       []render.Format // output formats
	factor        string          // experimental factor to draw
	imagePath     string          // icon base path override
	iconDir       string          // local icon files for PNG output
	clickEndpoint string          // URL the SVG posts clicks to
	scale         float64         // PNG resolution factor
	static        bool            // omit the SVG interaction script
	arcPaths      bool            // add arc path data to JSON output
	watch         bool            // re-render when the project file changes
	noCache       bool            // bypass the layout cache entirely
	refresh       bool            // recompute the layout, then update the cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <project>",
		Short: "Render a project's sample lineage to SVG, PNG or JSON",
		Long: `Render the samples of a project file (.json, .yaml or .yml).

With several experimental factors and no --factor, an interactive picker
asks which one to draw when stdin is a terminal; otherwise all samples are
drawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatsStr == "" {
				formatsStr = c.Config.Render.Formats
			}
			formats, err := render.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			if !cmd.Flags().Changed("scale") {
				opts.scale = c.Config.Render.Scale
			}
			if opts.iconDir == "" {
				opts.iconDir = c.Config.Render.IconDir
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.factor, "factor", "", "experimental factor to draw (default: all samples)")
	cmd.Flags().StringVar(&opts.imagePath, "image-path", "", "icon base path or URL, ending in '/'")
	cmd.Flags().StringVar(&opts.iconDir, "icon-dir", "", "directory with icon files for PNG output")
	cmd.Flags().StringVar(&opts.clickEndpoint, "click-endpoint", "", "URL the SVG posts sample clicks to")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG resolution factor")
	cmd.Flags().BoolVar(&opts.static, "static", false, "omit the SVG interaction script")
	cmd.Flags().BoolVar(&opts.arcPaths, "arc-paths", false, "include arc path data in JSON output")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the project file changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute the layout even if cached")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(render.Formats))
		for i, f := range render.Formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runRender renders input once, then keeps re-rendering on change with --watch.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	if opts.output == "-" && len(opts.formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "only one format can be written to stdout")
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.factor == "" {
		factor, err := c.chooseFactor(input)
		if err != nil {
			return err
		}
		opts.factor = factor
	}

	if err := c.renderOnce(ctx, runner, input, opts); err != nil {
		if !opts.watch {
			return err
		}
		printError("%s", err)
	}
	if !opts.watch {
		return nil
	}
	return c.watch(ctx, input, func() error {
		return c.renderOnce(ctx, runner, input, opts)
	})
}

// chooseFactor offers the project's factors in a picker when there are
// several and stdin is a terminal. Anything else draws all samples.
func (c *CLI) chooseFactor(input string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", nil
	}
	p, err := sample.Load(input)
	if err != nil {
		return "", err
	}
	if len(p.Factors) < 2 {
		return "", nil
	}
	return pickFactor(p)
}

func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, input string, opts *renderOpts) error {
	prog := newProgress(c.Logger)

	_, st, err := pipeline.LoadState(input, opts.factor, opts.imagePath)
	if err != nil {
		return err
	}

	ropts := c.renderOptions()
	ropts.Refresh = opts.refresh

	spin := startSpinner(ctx, "Laying out samples...")
	res, err := runner.Render(ctx, st, ropts)
	spin.stop()
	if err != nil {
		return err
	}
	// The runner has logged the issues already; stdout stays clean for "-".
	toStdout := opts.output == "-"
	if !toStdout {
		printIssues(res.Issues)
	}

	artifacts, err := runner.Export(ctx, res.Scene, opts.formats, pipeline.ExportOptions{
		ClickEndpoint: opts.clickEndpoint,
		Static:        opts.static,
		Scale:         opts.scale,
		IconDir:       opts.iconDir,
		ArcPaths:      opts.arcPaths,
	})
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, f := range opts.formats {
		if err := writeOutput(paths[f], artifacts[f]); err != nil {
			return err
		}
	}

	if !toStdout {
		printSuccess("Rendered %s", filepath.Base(input))
		printStats(res)
		for _, f := range opts.formats {
			printFile(paths[f])
		}
	}
	prog.done(fmt.Sprintf("Rendered %d samples", len(st.Project)))
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, .json), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, render.Format(strings.TrimPrefix(strings.ToLower(ext), "."))) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths names one file per format. A single format writes to output
// verbatim when given.
func outputPaths(output, input string, formats []render.Format) map[render.Format]string {
	paths := make(map[render.Format]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + f.Ext()
	}
	return paths
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
