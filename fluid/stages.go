package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Boundary reflection keeps this fraction of the normal velocity.
const restitution = 0.5

// findNeighborhoods collects, for each particle, every index within the
// kernel range from the 3x3 cell neighborhood. Self is included.
func (s *Solver) findNeighborhoods(worker, start, end int) {
	maxDist2 := s.params.KernelRange * s.params.KernelRange
	cells := s.scratch[worker]

	for i := start; i < end; i++ {
		pos := s.particles[i].Position
		list := s.neighbors[i][:0]

		cells = s.grid.NeighboringCellsInto(cells[:0], pos)
		for _, cell := range cells {
			for _, j := range cell {
				if r2.Norm2(r2.Sub(pos, s.particles[j].Position)) <= maxDist2 {
					list = append(list, j)
				}
			}
		}
		s.neighbors[i] = list
	}

	s.scratch[worker] = cells[:0]
}

func (s *Solver) computeDensity(_, start, end int) {
	for i := start; i < end; i++ {
		p := &s.particles[i]
		var sum float64
		for _, j := range s.neighbors[i] {
			q := &s.particles[j]
			sum += q.Mass * s.kernels.Poly6(r2.Sub(p.Position, q.Position))
		}
		p.Density = sum
	}
}

func (s *Solver) computePressure(_, start, end int) {
	k := s.params.Stiffness
	rest := s.params.RestDensity
	for i := start; i < end; i++ {
		p := &s.particles[i]
		p.Pressure = math.Max(k*(p.Density-rest), 0)
	}
}

// computeForces accumulates interaction, pressure, viscosity, gravity and
// optional surface tension force densities.
func (s *Solver) computeForces(_, start, end int) {
	mu := s.params.Viscosity
	g := s.params.Gravity
	tension := s.params.SurfaceTension.Enabled

	for i := start; i < end; i++ {
		p := &s.particles[i]

		force := p.Force
		for _, in := range s.drained {
			force = r2.Add(force, s.interactionForce(p, in))
		}

		var fPressure, fViscosity r2.Vec
		for _, j := range s.neighbors[i] {
			q := &s.particles[j]
			x := r2.Sub(p.Position, q.Position)
			rho := s.safeDensity(q.Density)

			fPressure = r2.Add(fPressure,
				r2.Scale(q.Mass*(p.Pressure+q.Pressure)/(2*rho), s.kernels.SpikyGradient(x)))
			fViscosity = r2.Add(fViscosity,
				r2.Scale(q.Mass/rho*s.kernels.ViscosityLaplacian(x), r2.Sub(q.Velocity, p.Velocity)))
		}

		force = r2.Add(force, r2.Scale(-1, fPressure))
		force = r2.Add(force, r2.Scale(mu, fViscosity))
		force = r2.Add(force, r2.Vec{Y: p.Density * g})
		if tension {
			force = r2.Add(force, s.surfaceTension(i))
		}

		p.Force = force
	}
}

// integrate applies semi-implicit Euler: velocity first, then position
// from the new velocity.
func (s *Solver) integrate(_, start, end int) {
	dt := s.dt
	for i := start; i < end; i++ {
		p := &s.particles[i]
		p.Velocity = r2.Add(p.Velocity, r2.Scale(dt/s.safeDensity(p.Density), p.Force))
		p.Position = r2.Add(p.Position, r2.Scale(dt, p.Velocity))
	}
}

// resolveBoundaries clamps each axis to [0, extent] and reflects the
// velocity component with damping.
func (s *Solver) resolveBoundaries(_, start, end int) {
	w, h := s.params.Width, s.params.Height
	for i := start; i < end; i++ {
		p := &s.particles[i]
		p.Position.X, p.Velocity.X = clampAxis(p.Position.X, p.Velocity.X, w)
		p.Position.Y, p.Velocity.Y = clampAxis(p.Position.Y, p.Velocity.Y, h)
	}
}

func clampAxis(x, v, extent float64) (float64, float64) {
	switch {
	case x < 0:
		return 0, -restitution * v
	case x > extent:
		return extent, -restitution * v
	}
	return x, v
}

// clearForces keeps the integrated force for visualization and zeroes the accumulator.
func (s *Solver) clearForces(_, start, end int) {
	for i := start; i < end; i++ {
		p := &s.particles[i]
		p.AppliedForce = p.Force
		p.Force = r2.Vec{}
	}
}

// safeDensity floors density at the configured epsilon. NaN maps to epsilon.
func (s *Solver) safeDensity(rho float64) float64 {
	eps := s.params.DensityEpsilon
	if !(rho > eps) {
		if eps > 0 {
			return eps
		}
		return math.SmallestNonzeroFloat64
	}
	return rho
}
