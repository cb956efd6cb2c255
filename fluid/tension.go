package fluid

import "gonum.org/v1/gonum/spatial/r2"

// surfaceTension returns the color-field surface tension force density on
// particle i. Interior particles, whose color-field gradient is shorter than
// the threshold, get none.
func (s *Solver) surfaceTension(i int) r2.Vec {
	p := &s.particles[i]

	var normal r2.Vec
	var curvature float64
	for _, j := range s.neighbors[i] {
		q := &s.particles[j]
		x := r2.Sub(p.Position, q.Position)
		vol := q.Mass / s.safeDensity(q.Density)

		normal = r2.Add(normal, r2.Scale(vol, s.kernels.Poly6Gradient(x)))
		curvature += vol * s.kernels.Poly6Laplacian(x)
	}

	length := r2.Norm(normal)
	if length <= s.params.SurfaceTension.Threshold || length == 0 {
		return r2.Vec{}
	}
	return r2.Scale(-s.params.SurfaceTension.Coefficient*curvature/length, normal)
}
