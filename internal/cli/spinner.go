package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on a terminal while a render runs. On
// anything but a terminal it writes nothing.
type spinner struct {
	w       io.Writer
	message string
	start   time.Time

	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

// startSpinner starts a spinner on stderr that stops with ctx.
func startSpinner(ctx context.Context, message string) *spinner {
	return startSpinnerOn(ctx, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), message)
}

func startSpinnerOn(ctx context.Context, w io.Writer, animate bool, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		message: message,
		start:   time.Now(),
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	if !animate {
		close(s.stopped)
		return s
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+16))
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			elapsed := time.Since(s.start).Truncate(100 * time.Millisecond)
			fmt.Fprintf(s.w, "\r%s %s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message), StyleDim.Render(elapsed.String()))
		}
	}
}

// stop clears the status line. It is safe to call more than once.
func (s *spinner) stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}
