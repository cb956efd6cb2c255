package fluid

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// StepStats holds counters gathered during one Update.
type StepStats struct {
	// IsolatedParticles have no neighbor other than themselves.
	IsolatedParticles int
	// FlooredDensities were at or below the density epsilon (or NaN).
	FlooredDensities int
	// Interactions is the number of pointer forces drained this step.
	Interactions int
	MaxNeighbors int
}

// Healthy reports whether the step had no isolated particles or floored densities.
func (st StepStats) Healthy() bool {
	return st.IsolatedParticles == 0 && st.FlooredDensities == 0
}

// LogValue implements slog.LogValuer for structured logging.
func (st StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("isolated", st.IsolatedParticles),
		slog.Int("floored_densities", st.FlooredDensities),
		slog.Int("interactions", st.Interactions),
		slog.Int("max_neighbors", st.MaxNeighbors),
	)
}

func (s *Solver) checkDensities() {
	eps := s.params.DensityEpsilon
	for i := range s.particles {
		n := len(s.neighbors[i])
		if n <= 1 {
			s.stats.IsolatedParticles++
		}
		if n > s.stats.MaxNeighbors {
			s.stats.MaxNeighbors = n
		}
		if !(s.particles[i].Density > eps) {
			s.stats.FlooredDensities++
		}
	}
}

// reportHealth warns once when a healthy run first produces isolated
// particles or floored densities, and logs recovery.
func (s *Solver) reportHealth() {
	healthy := s.stats.Healthy()
	switch {
	case s.healthy && !healthy:
		slog.Warn("fluid step degraded", "step", s.steps, "stats", s.stats)
	case !s.healthy && healthy:
		slog.Debug("fluid step recovered", "step", s.steps)
	}
	s.healthy = healthy
}

// TotalMomentum returns the sum of mass * velocity.
func (s *Solver) TotalMomentum() r2.Vec {
	var px, py float64
	for i := range s.particles {
		p := &s.particles[i]
		px += p.Mass * p.Velocity.X
		py += p.Mass * p.Velocity.Y
	}
	return r2.Vec{X: px, Y: py}
}

// KineticEnergy returns the sum of 0.5 * mass * speed^2.
func (s *Solver) KineticEnergy() float64 {
	e := make([]float64, len(s.particles))
	for i := range s.particles {
		p := &s.particles[i]
		e[i] = 0.5 * p.Mass * p.Speed2()
	}
	return floats.Sum(e)
}

// MaxSpeed returns the largest particle speed.
func (s *Solver) MaxSpeed() float64 {
	sp := s.Speeds2(nil)
	if len(sp) == 0 {
		return 0
	}
	return math.Sqrt(floats.Max(sp))
}

// Speeds2 appends each particle's squared speed to dst.
func (s *Solver) Speeds2(dst []float64) []float64 {
	for i := range s.particles {
		dst = append(dst, s.particles[i].Speed2())
	}
	return dst
}

// Densities appends each particle's density to dst.
func (s *Solver) Densities(dst []float64) []float64 {
	for i := range s.particles {
		dst = append(dst, s.particles[i].Density)
	}
	return dst
}

// Pressures appends each particle's pressure to dst.
func (s *Solver) Pressures(dst []float64) []float64 {
	for i := range s.particles {
		dst = append(dst, s.particles[i].Pressure)
	}
	return dst
}

// InDomain reports whether every particle lies in [0, Width] x [0, Height].
func (s *Solver) InDomain() bool {
	for i := range s.particles {
		if !s.grid.contains(s.particles[i].Position) {
			return false
		}
	}
	return true
}
