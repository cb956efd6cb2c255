package fluid

import "gonum.org/v1/gonum/spatial/r2"

// Interaction is a pointer force queued for the next update.
type Interaction struct {
	Point r2.Vec
	// Attract pulls particles toward Point; otherwise they are pushed away.
	Attract bool
}

// ApplyRepulsion pushes particles near point away from it during the next Update.
// Safe to call concurrently with Update.
func (s *Solver) ApplyRepulsion(point r2.Vec) {
	s.interactions.push(Interaction{Point: point})
}

// ApplyAttraction pulls particles near point toward it during the next Update.
// Safe to call concurrently with Update.
func (s *Solver) ApplyAttraction(point r2.Vec) {
	s.interactions.push(Interaction{Point: point, Attract: true})
}

// interactionForce is gain * density * displacement for particles strictly
// within the interaction radius, zero otherwise.
func (s *Solver) interactionForce(p *Particle, in Interaction) r2.Vec {
	x := r2.Sub(p.Position, in.Point)
	radius := s.params.InteractionRadius
	if r2.Norm2(x) >= radius*radius {
		return r2.Vec{}
	}
	if in.Attract {
		x = r2.Scale(-1, x)
	}
	return r2.Scale(s.params.InteractionGain*p.Density, x)
}
