package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kernels evaluates the smoothing kernels for a fixed radius h.
// Normalization constants are computed once.
type Kernels struct {
	h  float64
	h2 float64

	poly6     float64 // 315 / (64 pi h^9)
	poly6Grad float64 // -945 / (32 pi h^9)
	spiky     float64 // -45 / (pi h^6)
	viscosity float64 // 45 / (pi h^6)
}

// NewKernels returns kernels with smoothing radius h.
func NewKernels(h float64) Kernels {
	h6 := math.Pow(h, 6)
	h9 := math.Pow(h, 9)
	return Kernels{
		h:         h,
		h2:        h * h,
		poly6:     315.0 / (64.0 * math.Pi * h9),
		poly6Grad: -945.0 / (32.0 * math.Pi * h9),
		spiky:     -45.0 / (math.Pi * h6),
		viscosity: 45.0 / (math.Pi * h6),
	}
}

// Range returns the smoothing radius.
func (k Kernels) Range() float64 { return k.h }

// Poly6 is the density kernel W(x, h).
func (k Kernels) Poly6(x r2.Vec) float64 {
	dist2 := r2.Norm2(x)
	if dist2 > k.h2 {
		return 0
	}
	d := k.h2 - dist2
	return k.poly6 * d * d * d
}

// SpikyGradient is the gradient of the spiky kernel, used for pressure.
// It is the zero vector at r = 0 and outside the kernel range.
func (k Kernels) SpikyGradient(x r2.Vec) r2.Vec {
	r := r2.Norm(x)
	if r == 0 || r > k.h {
		return r2.Vec{}
	}
	d := k.h - r
	return r2.Scale(k.spiky*d*d/r, x)
}

// ViscosityLaplacian is the Laplacian of the viscosity kernel.
func (k Kernels) ViscosityLaplacian(x r2.Vec) float64 {
	r := r2.Norm(x)
	if r > k.h {
		return 0
	}
	return k.viscosity * (k.h - r)
}

// Poly6Gradient is the gradient of the density kernel.
func (k Kernels) Poly6Gradient(x r2.Vec) r2.Vec {
	dist2 := r2.Norm2(x)
	if dist2 > k.h2 {
		return r2.Vec{}
	}
	d := k.h2 - dist2
	return r2.Scale(k.poly6Grad*d*d, x)
}

// Poly6Laplacian is the Laplacian of the density kernel.
func (k Kernels) Poly6Laplacian(x r2.Vec) float64 {
	dist2 := r2.Norm2(x)
	if dist2 > k.h2 {
		return 0
	}
	return k.poly6Grad * (k.h2 - dist2) * (3*k.h2 - 7*dist2)
}
