package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Mode           string
	Particles      int
	Steps          uint64
	SimTime        float64
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Isolated       int
	Floored        int
}

// StatusLine is the one-line simulation summary.
func (d HUDData) StatusLine() string {
	return fmt.Sprintf("Particles: %d | Step: %d | t = %.3f s | %d steps/frame | FPS: %d",
		d.Particles, d.Steps, d.SimTime, d.StepsPerUpdate, d.FPS)
}

// WarningLine reports degraded particles, or "" when the fluid is healthy.
func (d HUDData) WarningLine() string {
	if d.Isolated == 0 && d.Floored == 0 {
		return ""
	}
	return fmt.Sprintf("Isolated: %d | Floored densities: %d", d.Isolated, d.Floored)
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText("Visualization: "+data.Mode, 10, 35, 16, rl.LightGray)
	rl.DrawText(data.StatusLine(), 10, 55, 16, rl.LightGray)

	y := int32(75)
	if data.Paused {
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
		y += 20
	}
	if w := data.WarningLine(); w != "" {
		rl.DrawText(w, 10, y, 16, h.renderer.Theme.WarnColor)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-stage timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with one bar per pipeline stage.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	padding := r.Theme.Padding
	height := r.Theme.LineHeight*int32(len(telemetry.Phases)+2) + padding*2

	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Step timing")
	y = r.DrawLabelValue(x, y, "Avg step", stats.AvgTickDuration.Round(time.Microsecond).String())

	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, float32(stats.PhasePct[phase]/100), p.width-padding*2)
	}
}
