// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Domain      DomainConfig      `yaml:"domain"`
	Fluid       FluidConfig       `yaml:"fluid"`
	Solver      SolverConfig      `yaml:"solver"`
	Layout      LayoutConfig      `yaml:"layout"`
	Interaction InteractionConfig `yaml:"interaction"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	WindowScale float64 `yaml:"window_scale"` // Window pixels per render pixel
	TargetFPS   int     `yaml:"target_fps"`
}

// DomainConfig holds the simulation domain extent in meters.
type DomainConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"` // Render pixels per meter
}

// FluidConfig holds the physical fluid parameters.
type FluidConfig struct {
	ParticlesPerAxis int                  `yaml:"particles_per_axis"`
	RestDensity      float64              `yaml:"rest_density"`
	Stiffness        float64              `yaml:"stiffness"`
	Viscosity        float64              `yaml:"viscosity"`
	Gravity          float64              `yaml:"gravity"` // Positive pulls toward +y (screen down)
	SurfaceTension   SurfaceTensionConfig `yaml:"surface_tension"`
}

// SurfaceTensionConfig controls the optional color-field surface tension term.
type SurfaceTensionConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Coefficient float64 `yaml:"coefficient"`
	Threshold   float64 `yaml:"threshold"` // Minimum color-field gradient length treated as surface
}

// SolverConfig holds integration and scheduling parameters.
type SolverConfig struct {
	DT                float64 `yaml:"dt"`
	StepsPerUpdate    int     `yaml:"steps_per_update"`
	KernelRangeFactor float64 `yaml:"kernel_range_factor"` // Kernel range in particle spacings
	DensityEpsilon    float64 `yaml:"density_epsilon"`
	Workers           int     `yaml:"workers"`            // 0 = GOMAXPROCS
	ParallelThreshold int     `yaml:"parallel_threshold"` // Below this particle count stages run inline
}

// LayoutConfig describes the initial fluid block.
type LayoutConfig struct {
	WidthFraction  float64 `yaml:"width_fraction"`  // Block width as a fraction of domain width
	HeightFraction float64 `yaml:"height_fraction"` // Block height as a fraction of domain height
	ColumnsRatio   float64 `yaml:"columns_ratio"`   // Columns = particles_per_axis * this
}

// InteractionConfig holds pointer forcing parameters.
type InteractionConfig struct {
	Gain   float64 `yaml:"gain"`
	Radius float64 `yaml:"radius"` // Meters; 0 = sqrt(3 * kernel range)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Simulated seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Spacing           float64 // Meters between particles
	Mass              float64 // RestDensity * Spacing^2
	KernelRange       float64 // Smoothing radius h
	ParticlesX        int
	ParticlesY        int
	InteractionRadius float64
	RenderWidth       int32 // Domain width in render pixels
	RenderHeight      int32
	WindowWidth       int32
	WindowHeight      int32
}

// ErrInvalid is returned when a loaded configuration cannot drive a simulation.
var ErrInvalid = errors.New("config: invalid")

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

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
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
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate reports the first parameter that cannot produce a running simulation.
func (c *Config) Validate() error {
	switch {
	case c.Domain.Width <= 0 || c.Domain.Height <= 0:
		return fmt.Errorf("%w: domain extent %gx%g", ErrInvalid, c.Domain.Width, c.Domain.Height)
	case c.Domain.Scale <= 0:
		return fmt.Errorf("%w: domain scale %g", ErrInvalid, c.Domain.Scale)
	case c.Fluid.ParticlesPerAxis < 2:
		return fmt.Errorf("%w: particles_per_axis %d", ErrInvalid, c.Fluid.ParticlesPerAxis)
	case c.Fluid.RestDensity <= 0:
		return fmt.Errorf("%w: rest_density %g", ErrInvalid, c.Fluid.RestDensity)
	case c.Solver.DT <= 0:
		return fmt.Errorf("%w: dt %g", ErrInvalid, c.Solver.DT)
	case c.Solver.KernelRangeFactor <= 0:
		return fmt.Errorf("%w: kernel_range_factor %g", ErrInvalid, c.Solver.KernelRangeFactor)
	case c.Layout.WidthFraction <= 0 || c.Layout.WidthFraction > 1:
		return fmt.Errorf("%w: layout width_fraction %g", ErrInvalid, c.Layout.WidthFraction)
	case c.Layout.HeightFraction <= 0 || c.Layout.HeightFraction > 1:
		return fmt.Errorf("%w: layout height_fraction %g", ErrInvalid, c.Layout.HeightFraction)
	case c.Layout.ColumnsRatio <= 0:
		return fmt.Errorf("%w: layout columns_ratio %g", ErrInvalid, c.Layout.ColumnsRatio)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call it again after mutating fields programmatically.
func (c *Config) ComputeDerived() {
	d := &c.Derived
	d.Spacing = 1.0 / float64(c.Fluid.ParticlesPerAxis)
	d.Mass = c.Fluid.RestDensity * d.Spacing * d.Spacing
	d.KernelRange = c.Solver.KernelRangeFactor * d.Spacing
	d.ParticlesX = int(float64(c.Fluid.ParticlesPerAxis) * c.Layout.ColumnsRatio)
	if d.ParticlesX < 1 {
		d.ParticlesX = 1
	}
	d.ParticlesY = c.Fluid.ParticlesPerAxis

	d.InteractionRadius = c.Interaction.Radius
	if d.InteractionRadius == 0 {
		// Same reach as comparing squared distance against 3h.
		d.InteractionRadius = math.Sqrt(3 * d.KernelRange)
	}

	d.RenderWidth = int32(c.Domain.Scale * c.Domain.Width)
	d.RenderHeight = int32(c.Domain.Scale * c.Domain.Height)
	scale := c.Screen.WindowScale
	if scale <= 0 {
		scale = 1
	}
	d.WindowWidth = int32(float64(d.RenderWidth) * scale)
	d.WindowHeight = int32(float64(d.RenderHeight) * scale)
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
