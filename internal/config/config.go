// Package config handles configuration loading for minicharts.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/seenimoa/minicharts/internal/datasource"
	"github.com/seenimoa/minicharts/internal/render"
	"github.com/seenimoa/minicharts/pkg/utils"
)

// Config represents the complete application configuration.
type Config struct {
	Widgets WidgetsConfig `mapstructure:"widgets" yaml:"widgets"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Cache   CacheConfig   `mapstructure:"cache"   yaml:"cache"`
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources"`
	Live    LiveConfig    `mapstructure:"live"    yaml:"live"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// WidgetsConfig holds the default dimensions of every widget.
type WidgetsConfig struct {
	Radial    RadialWidget    `mapstructure:"radial"    yaml:"radial"`
	Progress  ProgressWidget  `mapstructure:"progress"  yaml:"progress"`
	Summary   SummaryWidget   `mapstructure:"summary"   yaml:"summary"`
	Sparkline SparklineWidget `mapstructure:"sparkline" yaml:"sparkline"`
	Timezone  string          `mapstructure:"timezone"  yaml:"timezone"` // page timestamps, e.g. "Europe/Berlin"
	Workers   int             `mapstructure:"workers"   yaml:"workers"`  // concurrent card renders
}

// RadialWidget sizes the radial score card.
type RadialWidget struct {
	Size        float64 `mapstructure:"size"         yaml:"size"`
	StrokeWidth float64 `mapstructure:"stroke_width" yaml:"stroke_width"`
}

// ProgressWidget sizes the inline progress ring.
type ProgressWidget struct {
	Radius      float64 `mapstructure:"radius"       yaml:"radius"`
	StrokeWidth float64 `mapstructure:"stroke_width" yaml:"stroke_width"`
	Color       string  `mapstructure:"color"        yaml:"color"`
}

// SummaryWidget sizes the concentric summary rings.
type SummaryWidget struct {
	OuterRadius float64 `mapstructure:"outer_radius" yaml:"outer_radius"`
	InnerRadius float64 `mapstructure:"inner_radius" yaml:"inner_radius"`
	StrokeWidth float64 `mapstructure:"stroke_width" yaml:"stroke_width"`
}

// SparklineWidget sizes sparklines.
type SparklineWidget struct {
	Width       float64 `mapstructure:"width"        yaml:"width"`
	Height      float64 `mapstructure:"height"       yaml:"height"`
	Area        bool    `mapstructure:"area"         yaml:"area"`
	StrokeColor string  `mapstructure:"stroke_color" yaml:"stroke_color"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host         string   `mapstructure:"host"           yaml:"host"`
	Port         int      `mapstructure:"port"           yaml:"port"`
	CORSOrigins  []string `mapstructure:"cors_origins"   yaml:"cors_origins"`
	RateLimit    int      `mapstructure:"rate_limit"     yaml:"rate_limit"` // requests per second, 0 disables
	MaxBodyBytes int64    `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	MaxPNGPixels int      `mapstructure:"max_png_pixels" yaml:"max_png_pixels"` // width × height cap for PNG renders
	AuthToken    string   `mapstructure:"auth_token"     yaml:"auth_token"` // bearer token for /api/v1, empty disables
}

// CacheConfig holds rendered-output cache settings.
type CacheConfig struct {
	TTL int `mapstructure:"ttl" yaml:"ttl"` // seconds, 0 disables
}

// SourcesConfig holds feed and status page fetching settings.
type SourcesConfig struct {
	WindowDays    int    `mapstructure:"window_days"     yaml:"window_days"`
	MaxWindowDays int    `mapstructure:"max_window_days" yaml:"max_window_days"`
	Concurrency   int    `mapstructure:"concurrency"     yaml:"concurrency"`
	RatePerSec    int    `mapstructure:"rate_per_sec"    yaml:"rate_per_sec"`
	CacheTTL      int    `mapstructure:"cache_ttl"       yaml:"cache_ttl"` // seconds
	Timezone      string `mapstructure:"timezone"        yaml:"timezone"`  // day boundaries for feed activity
	StatusToken   string `mapstructure:"status_token"    yaml:"status_token"`
}

// LiveConfig holds websocket live series settings.
type LiveConfig struct {
	Window    int `mapstructure:"window"     yaml:"window"`     // samples kept per series
	MaxSeries int `mapstructure:"max_series" yaml:"max_series"` // distinct series names
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug" or "info"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.minicharts/config.yaml (home directory)
//  3. /etc/minicharts/config.yaml (system)
//
// Environment variables override config file values.
// Format: MINICHARTS_<SECTION>_<KEY>, e.g., MINICHARTS_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".minicharts"))
	v.AddConfigPath("/etc/minicharts")

	v.SetEnvPrefix("MINICHARTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("MINICHARTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: unmarshal defaults: %v", err))
	}
	return &cfg
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Widget defaults
	v.SetDefault("widgets.radial.size", 140)
	v.SetDefault("widgets.radial.stroke_width", 10)
	v.SetDefault("widgets.progress.radius", 36)
	v.SetDefault("widgets.progress.stroke_width", 8)
	v.SetDefault("widgets.progress.color", render.ColorBlue)
	v.SetDefault("widgets.summary.outer_radius", 52)
	v.SetDefault("widgets.summary.inner_radius", 38)
	v.SetDefault("widgets.summary.stroke_width", 8)
	v.SetDefault("widgets.sparkline.width", 280)
	v.SetDefault("widgets.sparkline.height", 64)
	v.SetDefault("widgets.sparkline.area", true)
	v.SetDefault("widgets.sparkline.stroke_color", render.ColorBlue)
	v.SetDefault("widgets.timezone", "UTC")
	v.SetDefault("widgets.workers", 4)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.rate_limit", 50)
	v.SetDefault("api.max_body_bytes", 1<<20) // 1 MiB
	v.SetDefault("api.max_png_pixels", render.DefaultMaxPixels)
	v.SetDefault("api.auth_token", "")

	// Cache defaults
	v.SetDefault("cache.ttl", 60) // 1 minute

	// Source defaults
	v.SetDefault("sources.window_days", 14)
	v.SetDefault("sources.max_window_days", datasource.DefaultMaxDays)
	v.SetDefault("sources.concurrency", 4)
	v.SetDefault("sources.rate_per_sec", 2)
	v.SetDefault("sources.cache_ttl", 300) // 5 minutes
	v.SetDefault("sources.timezone", "UTC")
	v.SetDefault("sources.status_token", "")

	// Live series defaults
	v.SetDefault("live.window", 60)
	v.SetDefault("live.max_series", 32)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("MINICHARTS_API_AUTH_TOKEN"); key != "" {
		cfg.API.AuthToken = key
	}
	if key := os.Getenv("MINICHARTS_SOURCES_STATUS_TOKEN"); key != "" {
		cfg.Sources.StatusToken = key
	}
}

// Validate rejects settings that would make every widget render fail.
func (c *Config) Validate() error {
	var errs []error
	w := c.Widgets
	if w.Radial.StrokeWidth < 0 || w.Radial.Size <= w.Radial.StrokeWidth {
		errs = append(errs, fmt.Errorf("widgets.radial: size %v must exceed stroke_width %v", w.Radial.Size, w.Radial.StrokeWidth))
	}
	if w.Progress.Radius <= 0 {
		errs = append(errs, fmt.Errorf("widgets.progress.radius must be positive, got %v", w.Progress.Radius))
	}
	if w.Summary.OuterRadius <= 0 || w.Summary.InnerRadius <= 0 {
		errs = append(errs, fmt.Errorf("widgets.summary radii must be positive, got %v/%v", w.Summary.OuterRadius, w.Summary.InnerRadius))
	} else if w.Summary.InnerRadius >= w.Summary.OuterRadius {
		errs = append(errs, fmt.Errorf("widgets.summary.inner_radius %v must be smaller than outer_radius %v", w.Summary.InnerRadius, w.Summary.OuterRadius))
	}
	if w.Sparkline.Width <= 0 || w.Sparkline.Height <= 0 {
		errs = append(errs, fmt.Errorf("widgets.sparkline viewport must be positive, got %vx%v", w.Sparkline.Width, w.Sparkline.Height))
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port out of range: %d", c.API.Port))
	}
	if c.API.MaxPNGPixels < 1 {
		errs = append(errs, fmt.Errorf("api.max_png_pixels must be positive, got %d", c.API.MaxPNGPixels))
	}
	if c.Sources.MaxWindowDays < 1 {
		errs = append(errs, fmt.Errorf("sources.max_window_days must be at least 1, got %d", c.Sources.MaxWindowDays))
	}
	if c.Sources.WindowDays < 1 || c.Sources.WindowDays > c.Sources.MaxWindowDays {
		errs = append(errs, fmt.Errorf("sources.window_days must be in [1, %d], got %d", c.Sources.MaxWindowDays, c.Sources.WindowDays))
	}
	if c.Live.Window < 1 || c.Live.MaxSeries < 1 {
		errs = append(errs, fmt.Errorf("live: window and max_series must be at least 1, got %d/%d", c.Live.Window, c.Live.MaxSeries))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug or info, got %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// PageConfig converts the widget settings into dashboard render settings.
func (w WidgetsConfig) PageConfig() render.PageConfig {
	cfg := render.DefaultPageConfig()
	cfg.Radial.Size = w.Radial.Size
	cfg.Radial.StrokeWidth = w.Radial.StrokeWidth
	cfg.Progress.Radius = w.Progress.Radius
	cfg.Progress.StrokeWidth = w.Progress.StrokeWidth
	if w.Progress.Color != "" {
		cfg.Progress.Color = w.Progress.Color
	}
	cfg.Summary.OuterRadius = w.Summary.OuterRadius
	cfg.Summary.InnerRadius = w.Summary.InnerRadius
	cfg.Summary.StrokeWidth = w.Summary.StrokeWidth
	cfg.Sparkline.Width = w.Sparkline.Width
	cfg.Sparkline.Height = w.Sparkline.Height
	cfg.Sparkline.Area = w.Sparkline.Area
	if w.Sparkline.StrokeColor != "" {
		cfg.Sparkline.StrokeColor = w.Sparkline.StrokeColor
	}
	cfg.Location = utils.LoadLocation(w.Timezone)
	if w.Workers > 0 {
		cfg.Workers = w.Workers
	}
	return cfg
}

// Duration returns the rendered-output cache lifetime.
func (c CacheConfig) Duration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// FeedsOptions converts the source settings into feed fetcher options.
func (s SourcesConfig) FeedsOptions() datasource.FeedsOptions {
	return datasource.FeedsOptions{
		CacheTTL:    time.Duration(s.CacheTTL) * time.Second,
		RatePerSec:  s.RatePerSec,
		Location:    utils.LoadLocation(s.Timezone),
		Concurrency: s.Concurrency,
		MaxDays:     s.MaxWindowDays,
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
