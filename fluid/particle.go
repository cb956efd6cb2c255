package fluid

import "gonum.org/v1/gonum/spatial/r2"

// Particle is the per-particle physical state.
type Particle struct {
	Position r2.Vec // meters
	Velocity r2.Vec // m/s

	// Force is the force-density accumulator. It is zero between updates.
	Force r2.Vec

	// AppliedForce is the force density integrated by the last update.
	AppliedForce r2.Vec

	Mass     float64
	Density  float64
	Pressure float64 // Never negative
}

// Speed2 returns the squared speed.
func (p *Particle) Speed2() float64 {
	return r2.Norm2(p.Velocity)
}

// AppliedForce2 returns the squared magnitude of the last integrated force density.
func (p *Particle) AppliedForce2() float64 {
	return r2.Norm2(p.AppliedForce)
}
