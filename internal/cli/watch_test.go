package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestIsChangeOf(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "project.json")

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: target, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "other.json"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isChangeOf(tt.ev, target); got != tt.want {
				t.Errorf("isChangeOf(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatchDebouncesWrites(t *testing.T) {
	path := writeProject(t)
	c := New(io.Discard, LogInfo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- c.watch(ctx, path, func() error {
			calls.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)
	for range 3 {
		if err := os.WriteFile(path, []byte(testProject), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(2 * watchDebounce)
	if got := calls.Load(); got != 1 {
		t.Errorf("render calls = %d, want 1 for one burst of writes", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch() error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watch() did not return after cancel")
	}
}
