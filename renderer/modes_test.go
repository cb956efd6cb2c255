package renderer

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/fluid"
)

func TestModeNextCycles(t *testing.T) {
	want := []Mode{ModeVelocity, ModeForce, ModeDensity, ModePressure, ModeWater, ModeDefault}
	m := ModeDefault
	for i, w := range want {
		m = m.Next()
		assert.Equal(t, w, m, "step %d", i)
	}
}

func TestModeTitle(t *testing.T) {
	assert.Equal(t, "Particles", ModeDefault.Title())
	assert.Equal(t, "Water", ModeWater.Title())
	assert.Equal(t, "Unknown", Mode(42).Title())
	assert.Equal(t, ModePressure, ModeFromIndex(4))
	assert.Equal(t, ModeDefault, ModeFromIndex(9))
}

func TestColor(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		p    fluid.Particle
		want rl.Color
	}{
		{"default is white", ModeDefault, fluid.Particle{Density: 5000}, rl.White},
		{"water is white", ModeWater, fluid.Particle{}, rl.White},
		{"density below range", ModeDensity, fluid.Particle{Density: 1000}, rl.Color{R: 0, B: 50, A: 255}},
		{"density mid range", ModeDensity, fluid.Particle{Density: 7000}, rl.Color{R: 127, B: 50, A: 255}},
		{"density above range", ModeDensity, fluid.Particle{Density: 50000}, rl.Color{R: 255, B: 50, A: 255}},
		{"pressure at max", ModePressure, fluid.Particle{Pressure: 30000}, rl.Color{R: 255, B: 50, A: 255}},
		{"velocity squared", ModeVelocity, fluid.Particle{Velocity: r2.Vec{X: 100}}, rl.Color{R: 127, B: 50, A: 255}},
		{"force uses applied force", ModeForce, fluid.Particle{Force: r2.Vec{X: 1e10}}, rl.Color{R: 0, B: 50, A: 255}},
		{"nan density", ModeDensity, fluid.Particle{Density: math.NaN()}, rl.Color{R: 0, B: 50, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			assert.Equal(t, tt.want, Color(tt.mode, &p))
		})
	}
}

func TestColorDoesNotMutate(t *testing.T) {
	p := fluid.Particle{Density: 3000, Pressure: 2000, Velocity: r2.Vec{X: 1, Y: 2}}
	before := p
	for m := ModeDefault; m < numModes; m++ {
		Color(m, &p)
	}
	assert.Equal(t, before, p)
}
