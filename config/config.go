// Package config provides configuration loading and access for the
// simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Population PopulationConfig `yaml:"population"`
	Split      SplitConfig      `yaml:"split"`
	Seed       SeedConfig       `yaml:"seed"`
	Render     RenderConfig     `yaml:"render"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the simulation arena dimensions in arena units.
// Zero means: use the screen dimension.
type ArenaConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds the population cap.
type PopulationConfig struct {
	Cap int `yaml:"cap"`
}

// SplitConfig holds split parameters.
type SplitConfig struct {
	Ratio float64 `yaml:"ratio"` // radius shrink factor, strictly in (0, 1)
}

// SeedConfig describes the single seed particle. X/Y of zero place it at
// the arena center.
type SeedConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	VelX   float64 `yaml:"vel_x"`
	VelY   float64 `yaml:"vel_y"`
	Color  uint32  `yaml:"color"` // packed 0xRRGGBB
}

// RenderConfig holds renderer strategy parameters.
type RenderConfig struct {
	// BatchThreshold is the live count above which drawing switches from
	// per-particle circles to color-batched squares.
	BatchThreshold int `yaml:"batch_threshold"`
	// GPU enables the shader pipeline that recovers circular silhouettes
	// at high population. Falls back to the batched path if unavailable.
	GPU bool `yaml:"gpu"`
}

// ParallelConfig holds worker-pool stepping parameters.
type ParallelConfig struct {
	Enabled   bool `yaml:"enabled"`
	Threshold int  `yaml:"threshold"` // minimum batch size to dispatch to workers
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"` // ticks per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ArenaW32 float32 // effective arena width as float32
	ArenaH32 float32 // effective arena height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
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

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	arenaW := c.Arena.Width
	if arenaW == 0 {
		arenaW = c.Screen.Width
	}
	arenaH := c.Arena.Height
	if arenaH == 0 {
		arenaH = c.Screen.Height
	}
	c.Derived.ArenaW32 = float32(arenaW)
	c.Derived.ArenaH32 = float32(arenaH)
}

// Validate rejects configurations the simulation cannot be constructed
// from. Violations surface here, at load time, never mid-simulation.
func (c *Config) Validate() error {
	if c.Population.Cap < 1 {
		return fmt.Errorf("population.cap must be at least 1, got %d", c.Population.Cap)
	}
	if !(c.Split.Ratio > 0 && c.Split.Ratio < 1) {
		return fmt.Errorf("split.ratio must be strictly between 0 and 1, got %g", c.Split.Ratio)
	}
	if c.Derived.ArenaW32 <= 0 || c.Derived.ArenaH32 <= 0 {
		return fmt.Errorf("arena dimensions must be positive, got %gx%g", c.Derived.ArenaW32, c.Derived.ArenaH32)
	}
	if !isFinite(c.Seed.Radius) || c.Seed.Radius < 1 {
		return fmt.Errorf("seed.radius must be finite and >= 1, got %g", c.Seed.Radius)
	}
	if !isFinite(c.Seed.VelX) || !isFinite(c.Seed.VelY) {
		return fmt.Errorf("seed velocity must be finite, got (%g, %g)", c.Seed.VelX, c.Seed.VelY)
	}
	if c.Seed.Color > 0xFFFFFF {
		return fmt.Errorf("seed.color must be a packed 24-bit RGB value, got %#x", c.Seed.Color)
	}
	if c.Render.BatchThreshold < 0 {
		return fmt.Errorf("render.batch_threshold must be non-negative, got %d", c.Render.BatchThreshold)
	}
	if c.Telemetry.WindowTicks < 1 {
		return fmt.Errorf("telemetry.window_ticks must be at least 1, got %d", c.Telemetry.WindowTicks)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
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
