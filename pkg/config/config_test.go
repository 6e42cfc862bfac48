package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Render.Radius != 20 || cfg.Render.Margin != 15 || cfg.Render.FontSize != 14 {
		t.Errorf("render defaults = %+v", cfg.Render)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("cache backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Duration != 7*24*time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	if got, want := Dir(), filepath.Join(tmp, "samplegraph"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
	if got, want := DefaultPath(), filepath.Join(tmp, "samplegraph", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[render]
radius = 30
done = "#00ff00"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "1h30m"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Render.Radius != 30 || cfg.Render.Done != "#00ff00" {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.Margin != 15 {
		t.Errorf("margin = %v, want default 15 kept", cfg.Render.Margin)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("ttl = %v, want 1h30m", cfg.Cache.TTL)
	}

	st := cfg.Style()
	if st.Radius != 30 || st.Done != "#00ff00" || st.Missing != "grey" {
		t.Errorf("Style() = %+v", st)
	}
	if lo := cfg.LayoutOptions(); lo.Margin != 15 {
		t.Errorf("LayoutOptions().Margin = %v", lo.Margin)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[render\nradius = 1"},
		{"radius", "[render]\nradius = 0"},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"engine", "[layout]\nengine = \"neato\""},
		{"image path", "[server]\nimage_path = \"/assets\""},
		{"ttl", "[cache]\nttl = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() succeeded, want error")
			} else if code := errors.GetCode(err); code != errors.ErrCodeInvalidConfig && code != errors.ErrCodeInvalidPath {
				t.Errorf("error code = %v", code)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Render.Highlight = "#ff00ff"
	cfg.Cache.TTL = Duration{2 * time.Hour}
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Render.Highlight != "#ff00ff" || got.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("round trip = %+v", got)
	}
}

func TestEnsureExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := EnsureExists(path); err != nil {
		t.Fatalf("EnsureExists() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not created: %v", err)
	}

	if err := os.WriteFile(path, []byte("[render]\nradius = 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureExists(path); err != nil {
		t.Fatal(err)
	}
	cfg, _ := Load(path)
	if cfg.Render.Radius != 42 {
		t.Error("EnsureExists overwrote an existing file")
	}
}
