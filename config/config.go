// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Field       FieldConfig       `yaml:"field"`
	Pointer     PointerConfig     `yaml:"pointer"`
	Connections ConnectionsConfig `yaml:"connections"`
	Palette     []ColorConfig     `yaml:"palette"`
	Terminal    TerminalConfig    `yaml:"terminal"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width         int         `yaml:"width"`
	Height        int         `yaml:"height"`
	TargetFPS     int         `yaml:"target_fps"`
	MaxPixelRatio float64     `yaml:"max_pixel_ratio"` // Device pixel ratio cap for the backing store
	Background    ColorConfig `yaml:"background"`
}

// FieldConfig holds particle population and motion parameters.
type FieldConfig struct {
	Count     int     `yaml:"count"`
	MaxRadius float64 `yaml:"max_radius"` // Radius is drawn from [1, 1+max_radius)
	SpeedMin  float64 `yaml:"speed_min"`
	SpeedMax  float64 `yaml:"speed_max"`
	Damping   float64 `yaml:"damping"` // Velocity multiplier applied every frame
	Margin    float64 `yaml:"margin"`  // Distance outside the viewport before a particle respawns
	SoftLimit int     `yaml:"soft_limit"`
}

// PointerConfig holds pointer repulsion parameters.
type PointerConfig struct {
	Threshold float64     `yaml:"threshold"` // Squared distance below which the pointer repels
	Strength  float64     `yaml:"strength"`
	Epsilon   float64     `yaml:"epsilon"`
	Sentinel  PointConfig `yaml:"sentinel"` // Off-screen position meaning "no pointer"
}

// PointConfig is a position in logical pixels.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ConnectionsConfig holds neighbour line parameters.
type ConnectionsConfig struct {
	Distance float64     `yaml:"distance"`
	MaxAlpha float64     `yaml:"max_alpha"`
	Color    ColorConfig `yaml:"color"`
	Width    float64     `yaml:"width"`
}

// ColorConfig is an RGBA colour with a fractional alpha, as in CSS rgba().
type ColorConfig struct {
	R uint8   `yaml:"r"`
	G uint8   `yaml:"g"`
	B uint8   `yaml:"b"`
	A float64 `yaml:"a"`
}

// TerminalConfig holds the logical pixel size of one terminal cell.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	FrameMS    int     `yaml:"frame_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32       float32
	ScreenH32       float32
	ConnectionDist2 float64 // Connections.Distance squared
	QuadraticPairs  int     // Pairs examined per frame by the connection pass
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks parameter ranges that would otherwise break the update rules.
func (c *Config) Validate() error {
	var errs []error
	if c.Field.Count < 0 {
		errs = append(errs, fmt.Errorf("field.count must be >= 0, got %d", c.Field.Count))
	}
	if c.Field.MaxRadius <= 0 {
		errs = append(errs, fmt.Errorf("field.max_radius must be > 0, got %g", c.Field.MaxRadius))
	}
	if c.Field.SpeedMax < c.Field.SpeedMin {
		errs = append(errs, fmt.Errorf("field.speed_max (%g) < field.speed_min (%g)", c.Field.SpeedMax, c.Field.SpeedMin))
	}
	if c.Field.Damping <= 0 || c.Field.Damping > 1 {
		errs = append(errs, fmt.Errorf("field.damping must be in (0, 1], got %g", c.Field.Damping))
	}
	if c.Pointer.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("pointer.threshold must be > 0, got %g", c.Pointer.Threshold))
	}
	if c.Pointer.Epsilon <= 0 {
		errs = append(errs, fmt.Errorf("pointer.epsilon must be > 0, got %g", c.Pointer.Epsilon))
	}
	if c.Connections.Distance <= 0 {
		errs = append(errs, fmt.Errorf("connections.distance must be > 0, got %g", c.Connections.Distance))
	}
	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("palette must have at least one colour"))
	}
	if c.Screen.MaxPixelRatio < 1 {
		errs = append(errs, fmt.Errorf("screen.max_pixel_ratio must be >= 1, got %g", c.Screen.MaxPixelRatio))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.ConnectionDist2 = c.Connections.Distance * c.Connections.Distance

	n := c.Field.Count
	c.Derived.QuadraticPairs = n * (n - 1) / 2
	if n < 2 {
		c.Derived.QuadraticPairs = 0
	}

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
	if c.Terminal.CellWidth <= 0 {
		c.Terminal.CellWidth = 8
	}
	if c.Terminal.CellHeight <= 0 {
		c.Terminal.CellHeight = 16
	}
}

// ExceedsSoftLimit reports whether the particle count is past the point where
// the quadratic connection pass is expected to dominate frame time.
func (c *Config) ExceedsSoftLimit() bool {
	return c.Field.SoftLimit > 0 && c.Field.Count > c.Field.SoftLimit
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
