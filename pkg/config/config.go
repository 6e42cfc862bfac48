// Package config reads and writes the samplegraph configuration file,
// ~/.config/samplegraph/config.toml (or $XDG_CONFIG_HOME/samplegraph).
//
// A missing file yields [Default]. Command-line flags override individual
// values after loading.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/layout"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

// AppName names the config directory.
const AppName = "samplegraph"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config holds samplegraph configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig controls drawing and export.
type RenderConfig struct {
	Radius    float64 `toml:"radius"`
	Margin    float64 `toml:"margin"`
	FontSize  float64 `toml:"font_size"`
	MinWidth  float64 `toml:"min_width"`
	Highlight string  `toml:"highlight"`
	Done      string  `toml:"done"`
	Missing   string  `toml:"missing"`
	Stroke    string  `toml:"stroke"`
	Formats   string  `toml:"formats"`   // default --format value
	Scale     float64 `toml:"png_scale"` // PNG resolution factor
	IconDir   string  `toml:"icon_dir"`  // local icons for PNG export
}

// LayoutConfig controls the layout service.
type LayoutConfig struct {
	Engine  string  `toml:"engine"`
	RankSep float64 `toml:"rank_sep"`
	NodeSep float64 `toml:"node_sep"`
}

// CacheConfig selects and configures the layout cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"` // "none", "file", "redis"
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// ServerConfig controls the host server.
type ServerConfig struct {
	Addr      string   `toml:"addr"`
	ImagePath string   `toml:"image_path"`
	AssetsDir string   `toml:"assets_dir"`
	Origins   []string `toml:"allowed_origins"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	st := scene.DefaultStyle()
	lo := layout.DefaultOptions()
	return &Config{
		Render: RenderConfig{
			Radius:    st.Radius,
			Margin:    st.Margin,
			FontSize:  st.FontSize,
			MinWidth:  300,
			Highlight: st.Highlight,
			Done:      st.Done,
			Missing:   st.Missing,
			Stroke:    st.Stroke,
			Formats:   "svg",
			Scale:     2,
		},
		Layout: LayoutConfig{Engine: "dot", RankSep: lo.RankSep, NodeSep: lo.NodeSep},
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			Prefix:    AppName + ":",
			TTL:       Duration{7 * 24 * time.Hour},
		},
		Server: ServerConfig{Addr: ":8080", ImagePath: "/assets/"},
	}
}

// Dir returns the samplegraph config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName)
}

// DefaultPath is the config file read when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the file cache directory: the configured one, or
// $XDG_CACHE_HOME/samplegraph.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppName)
}

// Load reads the config at path (DefaultPath when empty). A missing file is
// not an error and yields the defaults; values present in the file override
// them.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path (DefaultPath when empty).
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Save(Default(), path)
}

// Validate rejects values no render can work with.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}
	switch {
	case c.Render.Radius <= 0:
		return invalid("render.radius must be positive, got %v", c.Render.Radius)
	case c.Render.FontSize <= 0:
		return invalid("render.font_size must be positive, got %v", c.Render.FontSize)
	case c.Render.Margin < 0 || c.Render.MinWidth < 0:
		return invalid("render.margin and render.min_width must not be negative")
	case c.Render.Scale <= 0:
		return invalid("render.png_scale must be positive, got %v", c.Render.Scale)
	case c.Layout.Engine != "dot":
		return invalid("layout.engine %q is not supported (want dot)", c.Layout.Engine)
	case c.Layout.RankSep < 0 || c.Layout.NodeSep < 0:
		return invalid("layout separations must not be negative")
	case !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend):
		return invalid("cache.backend %q is not one of none, file, redis", c.Cache.Backend)
	case c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "":
		return invalid("cache.redis_addr is required for the redis backend")
	}
	return errors.ValidateImagePath(c.Server.ImagePath)
}

// Style returns the scene style described by the render section.
func (c *Config) Style() scene.Style {
	st := scene.DefaultStyle()
	st.Radius = c.Render.Radius
	st.Margin = c.Render.Margin
	st.FontSize = c.Render.FontSize
	st.Highlight = c.Render.Highlight
	st.Done = c.Render.Done
	st.Missing = c.Render.Missing
	st.Stroke = c.Render.Stroke
	return st
}

// LayoutOptions returns the layout options; the margin comes from the
// render section so layout and legend share one inset.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{Margin: c.Render.Margin, RankSep: c.Layout.RankSep, NodeSep: c.Layout.NodeSep}
}
