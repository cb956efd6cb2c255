package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/effects"
	"github.com/pthm-cable/sph/fluid"
)

// ParticleRenderer draws particles as filled circles.
type ParticleRenderer struct {
	// radius in meters
	radius float32
}

// NewParticleRenderer creates a renderer drawing circles of half the
// particle spacing.
func NewParticleRenderer(spacing float64) *ParticleRenderer {
	return &ParticleRenderer{radius: float32(0.5 * spacing)}
}

// Draw renders all particles colored by mode.
func (r *ParticleRenderer) Draw(particles []fluid.Particle, mode Mode, cam *camera.Camera) {
	size := cam.WorldLength(r.radius)
	if size < 1 {
		size = 1
	}

	for i := range particles {
		p := &particles[i]
		x, y := float32(p.Position.X), float32(p.Position.Y)
		if !cam.IsVisible(x, y, r.radius) {
			continue
		}
		sx, sy := cam.WorldToScreen(x, y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, Color(mode, p))
	}
}

// DrawRipples renders pointer-interaction ripples as fading rings.
// Repulsion rings grow outward, attraction rings shrink inward.
func DrawRipples(ripples *effects.Ripples, radius float64, cam *camera.Camera) {
	ripples.Each(func(pos effects.Position, rip effects.Ripple) {
		t := float32(rip.Progress())
		scale := t
		color := rl.Color{R: 120, G: 180, B: 255}
		if rip.Attract {
			scale = 1 - t
			color = rl.Color{R: 255, G: 170, B: 90}
		}
		color.A = uint8((1 - t) * 200)

		sx, sy := cam.WorldToScreen(float32(pos.X), float32(pos.Y))
		r := cam.WorldLength(float32(radius)) * (0.2 + 0.8*scale)
		rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, r, color)
	})
}
