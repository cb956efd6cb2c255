package fluid

import (
	"fmt"
	"math"

	"github.com/pthm-cable/sph/config"
)

// SurfaceTension configures the optional color-field surface tension term.
type SurfaceTension struct {
	Enabled     bool
	Coefficient float64
	Threshold   float64
}

// Params is the fixed configuration a Solver reads at construction.
type Params struct {
	// Domain extent in meters.
	Width, Height float64

	// Initial block: ParticlesX columns by ParticlesY rows covering
	// LayoutWidth x LayoutHeight, centered horizontally on the floor.
	ParticlesX, ParticlesY    int
	LayoutWidth, LayoutHeight float64

	Mass        float64
	KernelRange float64
	RestDensity float64
	Stiffness   float64
	Viscosity   float64
	Gravity     float64 // Acceleration along +y

	SurfaceTension SurfaceTension

	InteractionGain   float64
	InteractionRadius float64 // Meters

	DensityEpsilon float64

	Workers           int // <= 0 uses GOMAXPROCS
	ParallelThreshold int
}

// ParamsFromConfig builds solver parameters from a loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	d := cfg.Derived
	return Params{
		Width:        cfg.Domain.Width,
		Height:       cfg.Domain.Height,
		ParticlesX:   d.ParticlesX,
		ParticlesY:   d.ParticlesY,
		LayoutWidth:  cfg.Domain.Width * cfg.Layout.WidthFraction,
		LayoutHeight: cfg.Domain.Height * cfg.Layout.HeightFraction,
		Mass:         d.Mass,
		KernelRange:  d.KernelRange,
		RestDensity:  cfg.Fluid.RestDensity,
		Stiffness:    cfg.Fluid.Stiffness,
		Viscosity:    cfg.Fluid.Viscosity,
		Gravity:      cfg.Fluid.Gravity,
		SurfaceTension: SurfaceTension{
			Enabled:     cfg.Fluid.SurfaceTension.Enabled,
			Coefficient: cfg.Fluid.SurfaceTension.Coefficient,
			Threshold:   cfg.Fluid.SurfaceTension.Threshold,
		},
		InteractionGain:   cfg.Interaction.Gain,
		InteractionRadius: d.InteractionRadius,
		DensityEpsilon:    cfg.Solver.DensityEpsilon,
		Workers:           cfg.Solver.Workers,
		ParallelThreshold: cfg.Solver.ParallelThreshold,
	}
}

// Validate checks the physical parameters shared by every constructor.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"width", p.Width},
		{"height", p.Height},
		{"mass", p.Mass},
		{"kernel range", p.KernelRange},
		{"rest density", p.RestDensity},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParams, f.name, f.v)
		}
	}
	if p.Stiffness < 0 || p.Viscosity < 0 || p.DensityEpsilon < 0 || p.InteractionRadius < 0 {
		return fmt.Errorf("%w: negative coefficient", ErrInvalidParams)
	}
	return nil
}

func (p Params) validateLayout() error {
	if p.ParticlesX < 1 || p.ParticlesY < 1 {
		return fmt.Errorf("%w: particle grid %dx%d", ErrInvalidParams, p.ParticlesX, p.ParticlesY)
	}
	if p.LayoutWidth <= 0 || p.LayoutWidth > p.Width || p.LayoutHeight <= 0 || p.LayoutHeight > p.Height {
		return fmt.Errorf("%w: layout %gx%g does not fit domain %gx%g",
			ErrInvalidParams, p.LayoutWidth, p.LayoutHeight, p.Width, p.Height)
	}
	return nil
}
