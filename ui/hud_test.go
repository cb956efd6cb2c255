package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHUDData_StatusLine(t *testing.T) {
	d := HUDData{Particles: 2450, Steps: 1200, SimTime: 0.12, StepsPerUpdate: 4, FPS: 60}
	assert.Equal(t, "Particles: 2450 | Step: 1200 | t = 0.120 s | 4 steps/frame | FPS: 60", d.StatusLine())
}

func TestHUDData_WarningLine(t *testing.T) {
	assert.Empty(t, HUDData{}.WarningLine())
	assert.Equal(t, "Isolated: 3 | Floored densities: 0", HUDData{Isolated: 3}.WarningLine())
}

func TestClampSteps(t *testing.T) {
	tests := []struct {
		n, max, want int
	}{
		{0, 10, 1},
		{5, 10, 5},
		{11, 10, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampSteps(tt.n, tt.max))
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, float32(0), clamp01(-1))
	assert.Equal(t, float32(0.25), clamp01(0.25))
	assert.Equal(t, float32(1), clamp01(3))
}

func TestControlsPanel_Contains(t *testing.T) {
	c := NewControlsPanel(100, 200, 240, 50)
	assert.True(t, c.Contains(110, 210))
	assert.False(t, c.Contains(90, 210))
	assert.False(t, c.Contains(110, float32(200+c.height())))

	c.SetPosition(0, 0)
	assert.True(t, c.Contains(10, 10))
}
