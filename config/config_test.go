package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Domain.Width != 3.0 || cfg.Domain.Height != 1.5 {
		t.Errorf("domain = %gx%g, want 3x1.5", cfg.Domain.Width, cfg.Domain.Height)
	}
	if cfg.Fluid.ParticlesPerAxis != 70 {
		t.Errorf("particles_per_axis = %d, want 70", cfg.Fluid.ParticlesPerAxis)
	}
	if cfg.Fluid.SurfaceTension.Enabled {
		t.Error("surface tension should be off by default")
	}

	d := cfg.Derived
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"spacing", d.Spacing, 1.0 / 70},
		{"mass", d.Mass, 1000.0 / (70 * 70)},
		{"kernel range", d.KernelRange, 2.0 / 70},
		{"interaction radius", d.InteractionRadius, math.Sqrt(3 * 2.0 / 70)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if d.ParticlesX != 35 || d.ParticlesY != 70 {
		t.Errorf("particles = %dx%d, want 35x70", d.ParticlesX, d.ParticlesY)
	}
	if d.RenderWidth != 1200 || d.RenderHeight != 600 {
		t.Errorf("render size = %dx%d, want 1200x600", d.RenderWidth, d.RenderHeight)
	}
	if d.WindowWidth != 1200 || d.WindowHeight != 600 {
		t.Errorf("window size = %dx%d, want 1200x600", d.WindowWidth, d.WindowHeight)
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := writeFile(t, `
fluid:
  stiffness: 20000
  surface_tension:
    enabled: true
interaction:
  radius: 0.2
screen:
  window_scale: 0.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Fluid.Stiffness != 20000 {
		t.Errorf("stiffness = %g, want 20000", cfg.Fluid.Stiffness)
	}
	if cfg.Fluid.Viscosity != 12000 {
		t.Errorf("viscosity = %g, want default 12000", cfg.Fluid.Viscosity)
	}
	if !cfg.Fluid.SurfaceTension.Enabled || cfg.Fluid.SurfaceTension.Coefficient != 10000 {
		t.Errorf("surface tension = %+v, want enabled with default coefficient", cfg.Fluid.SurfaceTension)
	}
	if cfg.Derived.InteractionRadius != 0.2 {
		t.Errorf("interaction radius = %g, want 0.2", cfg.Derived.InteractionRadius)
	}
	if cfg.Derived.WindowWidth != 600 {
		t.Errorf("window width = %d, want 600", cfg.Derived.WindowWidth)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero width", "domain:\n  width: 0\n"},
		{"negative dt", "solver:\n  dt: -0.001\n"},
		{"one particle", "fluid:\n  particles_per_axis: 1\n"},
		{"layout too wide", "layout:\n  width_fraction: 1.5\n"},
		{"zero kernel factor", "solver:\n  kernel_range_factor: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "fluid: [not, a, map]\n")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Fluid.Stiffness = 31415
	cfg.Solver.StepsPerUpdate = 4

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Fluid.Stiffness != 31415 || loaded.Solver.StepsPerUpdate != 4 {
		t.Errorf("round trip lost overrides: stiffness=%g steps=%d",
			loaded.Fluid.Stiffness, loaded.Solver.StepsPerUpdate)
	}
	if loaded.Derived != cfg.Derived {
		t.Errorf("derived mismatch: %+v vs %+v", loaded.Derived, cfg.Derived)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
