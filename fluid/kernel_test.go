package fluid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPoly6(t *testing.T) {
	h := 0.1
	k := NewKernels(h)

	tests := []struct {
		name string
		x    r2.Vec
		want float64
	}{
		{"origin", r2.Vec{}, 315 / (64 * math.Pi * math.Pow(h, 3))},
		{"half range", r2.Vec{X: 0.05}, 315 / (64 * math.Pi * math.Pow(h, 9)) * math.Pow(h*h-0.0025, 3)},
		{"at range", r2.Vec{Y: h}, 0},
		{"beyond range", r2.Vec{X: 0.2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := k.Poly6(tt.x)
			assert.InDelta(t, tt.want, got, 1e-9*math.Max(1, math.Abs(tt.want)))
		})
	}
}

func TestSpikyGradient(t *testing.T) {
	h := 0.1
	k := NewKernels(h)

	assert.Equal(t, r2.Vec{}, k.SpikyGradient(r2.Vec{}), "zero vector at r = 0")
	assert.Equal(t, r2.Vec{}, k.SpikyGradient(r2.Vec{X: 0.15}), "zero beyond range")

	x := r2.Vec{X: 0.03, Y: 0.04} // r = 0.05
	got := k.SpikyGradient(x)
	mag := 45 / (math.Pi * math.Pow(h, 6)) * 0.05 * 0.05

	// Points against x: pressure pushes neighbors apart.
	assert.InDelta(t, -mag*0.6, got.X, mag*1e-9)
	assert.InDelta(t, -mag*0.8, got.Y, mag*1e-9)
}

func TestViscosityLaplacian(t *testing.T) {
	h := 0.1
	k := NewKernels(h)

	c := 45 / (math.Pi * math.Pow(h, 6))
	assert.InDelta(t, c*h, k.ViscosityLaplacian(r2.Vec{}), c*h*1e-12)
	assert.InDelta(t, c*0.06, k.ViscosityLaplacian(r2.Vec{X: 0.04}), c*1e-12)
	assert.Zero(t, k.ViscosityLaplacian(r2.Vec{X: h}))
	assert.Zero(t, k.ViscosityLaplacian(r2.Vec{X: 0.5}))
}

func TestPoly6GradientMatchesFiniteDifference(t *testing.T) {
	k := NewKernels(0.1)
	const eps = 1e-7

	for _, x := range []r2.Vec{{X: 0.02, Y: 0.01}, {X: -0.05, Y: 0.03}, {X: 0.0, Y: -0.07}} {
		grad := k.Poly6Gradient(x)
		dx := (k.Poly6(r2.Vec{X: x.X + eps, Y: x.Y}) - k.Poly6(r2.Vec{X: x.X - eps, Y: x.Y})) / (2 * eps)
		dy := (k.Poly6(r2.Vec{X: x.X, Y: x.Y + eps}) - k.Poly6(r2.Vec{X: x.X, Y: x.Y - eps})) / (2 * eps)

		tol := 1e-5 * math.Max(1, r2.Norm(grad))
		assert.InDelta(t, dx, grad.X, tol, "d/dx at %v", x)
		assert.InDelta(t, dy, grad.Y, tol, "d/dy at %v", x)
	}
}
