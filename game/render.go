package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/ui"
)

const controlsLegend = "[Tab] mode  [1-6] reset+mode  [R] reset  [Space] pause  [,/.] steps  [LMB] push  [RMB] pull  [H] panel"

// Draw renders the fluid and the UI.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	rl.SetWindowTitle(g.WindowTitle())

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	particles := g.solver.Particles()
	if g.mode == renderer.ModeWater {
		g.water.Draw(particles, g.camera)
	} else {
		g.particles.Draw(particles, g.mode, g.camera)
	}
	renderer.DrawRipples(g.ripples, g.params.InteractionRadius, g.camera)

	g.drawUI()

	rl.EndDrawing()
}

func (g *Game) drawUI() {
	st := g.solver.Stats()
	g.hud.Draw(ui.HUDData{
		Title:          Title,
		Mode:           g.mode.Title(),
		Particles:      len(g.solver.Particles()),
		Steps:          uint64(g.totalSteps),
		SimTime:        g.SimTime(),
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Isolated:       st.IsolatedParticles,
		Floored:        st.FlooredDensities,
	})
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
	g.perfPanel.Draw(g.perfCollector.Stats())

	actions := g.controls.Draw(g.paused, g.stepsPerUpdate)
	if actions.Reset {
		g.resetWithMode(g.mode)
	}
	if actions.TogglePause {
		g.paused = !g.paused
	}
	if actions.NextMode {
		g.setMode(g.mode.Next())
	}
	if actions.StepsPerUpdate != g.stepsPerUpdate {
		slog.Debug("steps per update changed", "steps", actions.StepsPerUpdate)
		g.stepsPerUpdate = actions.StepsPerUpdate
	}
}
