// Package renderer draws the fluid with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/fluid"
)

// Mode selects how particles are colored.
type Mode uint8

const (
	ModeDefault Mode = iota
	ModeVelocity
	ModeForce
	ModeDensity
	ModePressure
	ModeWater
	numModes
)

var modeTitles = [numModes]string{
	ModeDefault:  "Particles",
	ModeVelocity: "Particle velocity",
	ModeForce:    "Particle force",
	ModeDensity:  "Particle density",
	ModePressure: "Particle pressure",
	ModeWater:    "Water",
}

// Next returns the mode after m, wrapping from Water to Default.
func (m Mode) Next() Mode {
	return (m + 1) % numModes
}

// Title is the human-readable mode name shown in the window title.
func (m Mode) Title() string {
	if m >= numModes {
		return "Unknown"
	}
	return modeTitles[m]
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return m.Title()
}

// ModeFromIndex maps 0..5 to a mode; out-of-range values give Default.
func ModeFromIndex(i int) Mode {
	if i < 0 || i >= int(numModes) {
		return ModeDefault
	}
	return Mode(i)
}

// colorRange is the value span mapped onto the red channel.
type colorRange struct {
	min, max float64
}

var modeRanges = [numModes]colorRange{
	ModeVelocity: {0, 20000},   // squared speed
	ModeForce:    {1e16, 2e18}, // squared force density
	ModeDensity:  {2000, 12000},
	ModePressure: {500, 30000},
}

// Color maps particle state to a color for the given mode.
// Water has no per-particle color and returns white.
func Color(mode Mode, p *fluid.Particle) rl.Color {
	var value float64
	switch mode {
	case ModeVelocity:
		value = p.Speed2()
	case ModeForce:
		value = p.AppliedForce2()
	case ModeDensity:
		value = p.Density
	case ModePressure:
		value = p.Pressure
	default:
		return rl.White
	}
	return ramp(value, modeRanges[mode])
}

// ramp scales value linearly from r.min..r.max to red 0..255 over a fixed blue.
func ramp(value float64, r colorRange) rl.Color {
	t := (value - r.min) / (r.max - r.min)
	if t != t || t < 0 { // NaN or below range
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return rl.Color{R: uint8(t * 255), G: 0, B: 50, A: 255}
}
