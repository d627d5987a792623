// Package config loads rigi-cli settings from a YAML file, RIGI_* environment
// variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/rigi-cli/internal/artifact"
	"github.com/mj1618/rigi-cli/internal/geometry"
	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of environment overrides, e.g. RIGI_CAPTURE_OUTPUT_DIR.
const EnvPrefix = "RIGI"

// Config is the full settings tree.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Capture  CaptureConfig  `mapstructure:"capture"  yaml:"capture"`
	Geometry GeometryConfig `mapstructure:"geometry" yaml:"geometry"`
	HTML     HTMLConfig     `mapstructure:"html"     yaml:"html"`
	AutoScan AutoScanConfig `mapstructure:"autoscan" yaml:"autoscan"`
	Server   ServerConfig   `mapstructure:"server"   yaml:"server"`
}

// LoggingConfig configures the zap logger and the optional rotated file.
type LoggingConfig struct {
	Enabled    bool   `mapstructure:"enabled"     yaml:"enabled"`
	Level      string `mapstructure:"level"       yaml:"level"`
	Format     string `mapstructure:"format"      yaml:"format"`
	AddSource  bool   `mapstructure:"add_source"  yaml:"add_source"`
	LogFile    string `mapstructure:"log_file"    yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size"    yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"     yaml:"max_age"`
	Compress   bool   `mapstructure:"compress"    yaml:"compress"`
}

// CaptureConfig controls which texts are collected and where artifacts go.
type CaptureConfig struct {
	OutputDir      string `mapstructure:"output_dir"      yaml:"output_dir"`
	FileTimestamps bool   `mapstructure:"file_timestamps" yaml:"file_timestamps"`
	// OnlyActiveBoundary skips everything behind the top-most screen or modal.
	OnlyActiveBoundary bool `mapstructure:"only_active_boundary" yaml:"only_active_boundary"`
	// ExtraBoundaries names embedded boundaries that still count as active,
	// for example a side menu living inside a map screen.
	ExtraBoundaries []string `mapstructure:"extra_boundaries" yaml:"extra_boundaries"`
	// AutoClearInputs annotates the placeholder of text inputs instead of
	// what the user typed.
	AutoClearInputs bool `mapstructure:"auto_clear_inputs" yaml:"auto_clear_inputs"`
	Preview         bool `mapstructure:"preview"           yaml:"preview"`
}

// GeometryConfig mirrors geometry.Options in config form.
type GeometryConfig struct {
	ClipStyle             string  `mapstructure:"clip_style"              yaml:"clip_style"`
	ClipOffscreen         bool    `mapstructure:"clip_offscreen"          yaml:"clip_offscreen"`
	MinOnscreenHorizontal float64 `mapstructure:"min_onscreen_horizontal" yaml:"min_onscreen_horizontal"`
	MinOnscreenVertical   float64 `mapstructure:"min_onscreen_vertical"   yaml:"min_onscreen_vertical"`
	ExpandToControl       bool    `mapstructure:"expand_to_control"       yaml:"expand_to_control"`
}

// HTMLConfig controls the look of the artifact. Empty style sheets fall back
// to the built-in ones.
type HTMLConfig struct {
	PreviewPosition  string      `mapstructure:"preview_position"   yaml:"preview_position"`
	DeviceBezels     bool        `mapstructure:"device_bezels"      yaml:"device_bezels"`
	LabelBorders     bool        `mapstructure:"label_borders"      yaml:"label_borders"`
	LabelBorderColor string      `mapstructure:"label_border_color" yaml:"label_border_color"`
	IncludeWebFonts  bool        `mapstructure:"include_web_fonts"  yaml:"include_web_fonts"`
	WebFonts         string      `mapstructure:"web_fonts"          yaml:"web_fonts,omitempty"`
	FontStyles       string      `mapstructure:"font_styles"        yaml:"font_styles,omitempty"`
	BodyStyles       string      `mapstructure:"body_styles"        yaml:"body_styles,omitempty"`
	FontClasses      []FontClass `mapstructure:"font_classes"       yaml:"font_classes,omitempty"`
}

// FontClass maps a font name to CSS classes. It is a list entry rather than
// a map key because font names contain dots and mixed case.
type FontClass struct {
	Font  string `mapstructure:"font"  yaml:"font"`
	Class string `mapstructure:"class" yaml:"class"`
}

// AutoScanConfig configures the periodic capture loop.
type AutoScanConfig struct {
	Enabled  bool          `mapstructure:"enabled"  yaml:"enabled"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Delay    time.Duration `mapstructure:"delay"    yaml:"delay"`
	// Guard decides when a tick captures: "never" or "boundary-changed".
	Guard string `mapstructure:"guard" yaml:"guard"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string        `mapstructure:"transport" yaml:"transport"`
	Addr      string        `mapstructure:"addr"      yaml:"addr"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// Guard names.
const (
	GuardNever           = "never"
	GuardBoundaryChanged = "boundary-changed"
)

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// -- Logging --
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.log_file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7)
	v.SetDefault("logging.compress", false)

	// -- Capture --
	v.SetDefault("capture.output_dir", "rigi")
	v.SetDefault("capture.file_timestamps", true)
	v.SetDefault("capture.only_active_boundary", true)
	v.SetDefault("capture.extra_boundaries", []string{"SE_MenuViewController"})
	v.SetDefault("capture.auto_clear_inputs", true)
	v.SetDefault("capture.preview", false)

	// -- Geometry --
	v.SetDefault("geometry.clip_style", "active-boundary")
	v.SetDefault("geometry.clip_offscreen", true)
	v.SetDefault("geometry.min_onscreen_horizontal", 0.8)
	v.SetDefault("geometry.min_onscreen_vertical", 0.8)
	v.SetDefault("geometry.expand_to_control", false)

	// -- HTML --
	v.SetDefault("html.preview_position", "center")
	v.SetDefault("html.device_bezels", true)
	v.SetDefault("html.label_borders", true)
	v.SetDefault("html.label_border_color", "#0a3679")
	v.SetDefault("html.include_web_fonts", true)
	v.SetDefault("html.web_fonts", "")
	v.SetDefault("html.font_styles", "")
	v.SetDefault("html.body_styles", "")

	// -- Auto scan --
	v.SetDefault("autoscan.enabled", false)
	v.SetDefault("autoscan.interval", "1s")
	v.SetDefault("autoscan.delay", "700ms")
	v.SetDefault("autoscan.guard", GuardNever)

	// -- Server --
	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cache_ttl", "2s")
}

// NewViper returns a viper instance with defaults and environment binding.
// When path is non-empty that file must exist; otherwise rigi.yaml is looked
// up in the working directory and is optional.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return v, nil
	}

	v.SetConfigName("rigi")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read rigi.yaml: %w", err)
		}
	}
	return v, nil
}

// NewDefaultConfig returns the built-in settings.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// NewConfigFromViper decodes and validates the settings held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings for sane values.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Capture.OutputDir == "" {
		return fmt.Errorf("capture.output_dir must not be empty")
	}
	if _, err := geometry.ParseClipStyle(c.Geometry.ClipStyle); err != nil {
		return fmt.Errorf("geometry.clip_style: %w", err)
	}
	for name, r := range map[string]float64{
		"min_onscreen_horizontal": c.Geometry.MinOnscreenHorizontal,
		"min_onscreen_vertical":   c.Geometry.MinOnscreenVertical,
	} {
		if r < 0 || r > 1 {
			return fmt.Errorf("geometry.%s must be between 0.0 and 1.0, got %v", name, r)
		}
	}
	if _, err := artifact.ParsePosition(c.HTML.PreviewPosition); err != nil {
		return fmt.Errorf("html.preview_position: %w", err)
	}
	if _, err := model.ParseColor(c.HTML.LabelBorderColor); err != nil {
		return fmt.Errorf("html.label_border_color: %w", err)
	}
	for i, fc := range c.HTML.FontClasses {
		if fc.Font == "" || fc.Class == "" {
			return fmt.Errorf("html.font_classes[%d] needs both font and class", i)
		}
	}
	if err := c.AutoScan.Validate(); err != nil {
		return fmt.Errorf("autoscan: %w", err)
	}
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		return fmt.Errorf("server.transport must be stdio or http, got %q", c.Server.Transport)
	}
	return nil
}

// Validate checks the auto scan timings. The capture delay has to fit
// inside one interval or ticks would overlap.
func (a AutoScanConfig) Validate() error {
	if a.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", a.Interval)
	}
	if a.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %v", a.Delay)
	}
	if a.Interval <= a.Delay {
		return fmt.Errorf("interval (%v) must be greater than delay (%v)", a.Interval, a.Delay)
	}
	if a.Guard != GuardNever && a.Guard != GuardBoundaryChanged {
		return fmt.Errorf("guard must be %s or %s, got %q", GuardNever, GuardBoundaryChanged, a.Guard)
	}
	return nil
}

// GeometryOptions converts the geometry section.
func (c *Config) GeometryOptions() geometry.Options {
	style, _ := geometry.ParseClipStyle(c.Geometry.ClipStyle)
	return geometry.Options{
		ClipStyle:             style,
		ClipOffscreen:         c.Geometry.ClipOffscreen,
		MinOnscreenHorizontal: c.Geometry.MinOnscreenHorizontal,
		MinOnscreenVertical:   c.Geometry.MinOnscreenVertical,
		ExpandToControl:       c.Geometry.ExpandToControl,
	}
}

// Style converts the html section, filling empty style sheets with the
// built-in ones. Configured font classes override built-in entries.
func (c *Config) Style() artifact.Style {
	s := artifact.DefaultStyle()
	s.Position, _ = artifact.ParsePosition(c.HTML.PreviewPosition)
	s.DeviceBezels = c.HTML.DeviceBezels
	s.LabelBorders = c.HTML.LabelBorders
	s.LabelBorderColor = c.HTML.LabelBorderColor
	s.ExpandToControl = c.Geometry.ExpandToControl
	s.IncludeWebFonts = c.HTML.IncludeWebFonts
	if c.HTML.WebFonts != "" {
		s.WebFonts = c.HTML.WebFonts
	}
	if c.HTML.FontStyles != "" {
		s.FontStyles = c.HTML.FontStyles
	}
	if c.HTML.BodyStyles != "" {
		s.BodyStyles = c.HTML.BodyStyles
	}
	for _, fc := range c.HTML.FontClasses {
		s.FontClasses[fc.Font] = fc.Class
	}
	return s
}
