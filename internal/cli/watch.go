package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events one editor save produces.
const watchDebounce = 250 * time.Millisecond

// watch calls fn after every change to path until ctx is done. The parent
// directory is watched, since editors often replace a file instead of
// writing it in place. Errors from fn are printed and watching continues.
func (c *CLI) watch(ctx context.Context, path string, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	printInfo("Watching %s for changes (Ctrl+C to stop)", path)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isChangeOf(ev, abs) {
				continue
			}
			c.Logger.Debug("project file changed", "file", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			pending = timer.C

		case <-pending:
			pending = nil
			if err := fn(); err != nil {
				printError("%s", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("file watcher error", "error", err)
		}
	}
}

// isChangeOf reports whether ev rewrote the file at abs.
func isChangeOf(ev fsnotify.Event, abs string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != abs {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
