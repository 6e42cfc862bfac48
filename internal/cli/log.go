// Package cli implements the samplegraph command-line interface.
//
// This package provides commands for rendering sample lineage diagrams from
// project files, serving them to a browser, inspecting a project's legend and
// experimental factors, and managing the layout cache. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, PNG or JSON output, optionally re-rendering on change
//   - serve: Run the host server with click reporting and an event stream
//   - legend: Print the categories and colors a project would show
//   - factors: List the experimental factors of a project
//   - cache: Manage the layout cache
//   - config: Show or initialize the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with "15:04:05.00"
// timestamps. Sample ids and error values are highlighted.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	styles := log.DefaultStyles()
	styles.Keys["sample"] = lipgloss.NewStyle().Foreground(colorCyan)
	styles.Values["sample"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(colorRed)
	l.SetStyles(styles)
	return l
}

// progress measures one command step and logs its completion time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to milliseconds, e.g.
// "Rendered 12 samples (84ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
