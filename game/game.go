// Package game drives a fluid solver from a window or a headless loop.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/effects"
	"github.com/pthm-cable/sph/fluid"
	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

// Title is the application name shown in the window title.
const Title = "Smoothed Particle Hydrodynamics"

// maxStepsPerUpdate bounds the steps-per-frame control.
const maxStepsPerUpdate = 50

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = embedded defaults
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	RestorePath    string // snapshot to start from
	Headless       bool
	StepsPerUpdate int // 0 = use config
	Mode           renderer.Mode
}

// Game owns the solver and everything around it.
type Game struct {
	cfg    *config.Config
	params fluid.Params
	solver *fluid.Solver

	// State
	mode           renderer.Mode
	paused         bool
	stepsPerUpdate int
	totalSteps     int64 // across resets
	headless       bool

	// Rendering
	camera    *camera.Camera
	particles *renderer.ParticleRenderer
	water     *renderer.WaterRenderer
	ripples   *effects.Ripples
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. Headless games never touch raylib.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	params := fluid.ParamsFromConfig(cfg)

	var (
		solver *fluid.Solver
		start  int64
		err    error
	)
	if opts.RestorePath != "" {
		solver, start, err = restoreSolver(params, opts.RestorePath)
	} else {
		solver, err = fluid.New(params)
	}
	if err != nil {
		return nil, fmt.Errorf("creating solver: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := cfg.Solver.StepsPerUpdate
	if opts.StepsPerUpdate > 0 {
		steps = opts.StepsPerUpdate
	}

	screenW := float32(cfg.Derived.WindowWidth)
	screenH := float32(cfg.Derived.WindowHeight)

	g := &Game{
		cfg:            cfg,
		params:         params,
		solver:         solver,
		mode:           opts.Mode,
		stepsPerUpdate: steps,
		totalSteps:     start,
		headless:       opts.Headless,

		camera:    camera.New(screenW, screenH, float32(params.Width), float32(params.Height)),
		particles: renderer.NewParticleRenderer(cfg.Derived.Spacing),
		water:     renderer.NewWaterRenderer(int32(screenW), int32(screenH), cfg.Derived.Spacing),
		ripples:   effects.NewRipples(),
		hud:       ui.NewHUD(),
		perfPanel: ui.NewPerfPanel(int32(screenW)-250, 10, 240),
		controls:  ui.NewControlsPanel(int32(screenW)-250, int32(screenH)-150, 240, maxStepsPerUpdate),

		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:        telemetry.NewCollector(statsWindow, cfg.Solver.DT),
		bookmarkDetector: telemetry.NewBookmarkDetector(12),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,

		screenWidth:  screenW,
		screenHeight: screenH,
	}
	g.collector.StartAt(start)
	g.solver.SetStageTimer(g.perfCollector)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.solver.Close()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	return g, nil
}

// SetStatsCallback installs a function called with every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Update handles input and advances the simulation unless paused.
// A solver failure pauses the game.
func (g *Game) Update() {
	g.handleInput()
	g.ripples.Update(float64(frameTime()))

	if g.paused {
		return
	}
	if err := g.advance(); err != nil {
		slog.Error("simulation halted", "error", err, "step", g.totalSteps)
		g.paused = true
	}
}

// UpdateHeadless advances the simulation without input or rendering.
func (g *Game) UpdateHeadless() error {
	return g.advance()
}

// advance runs stepsPerUpdate solver steps.
func (g *Game) advance() error {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.simulationStep(); err != nil {
			return err
		}
	}
	return nil
}

// simulationStep runs one solver step and its telemetry.
func (g *Game) simulationStep() error {
	g.perfCollector.StartTick()

	if err := g.solver.Update(g.cfg.Solver.DT); err != nil {
		g.perfCollector.EndTick()
		return err
	}
	g.totalSteps++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	st := g.solver.Stats()
	g.collector.RecordStep(st.IsolatedParticles, st.FlooredDensities, st.Interactions)
	g.flushTelemetry()

	g.perfCollector.EndTick()
	return nil
}

// Reset replaces the solver with a fresh initial layout.
func (g *Game) Reset() error {
	solver, err := g.solver.Reset()
	if err != nil {
		return fmt.Errorf("resetting solver: %w", err)
	}
	g.solver = solver
	g.collector.RecordReset()
	g.bookmarkDetector.Reset()
	g.ripples.Clear()
	slog.Info("simulation reset", "step", g.totalSteps, "mode", g.mode.Title())
	return nil
}

// resetWithMode resets and switches visualization.
func (g *Game) resetWithMode(mode renderer.Mode) {
	if err := g.Reset(); err != nil {
		slog.Error("reset failed", "error", err)
		g.paused = true
		return
	}
	g.setMode(mode)
}

func (g *Game) setMode(mode renderer.Mode) {
	if mode == g.mode {
		return
	}
	g.mode = mode
	slog.Debug("visualization changed", "mode", mode.Title())
}

// WindowTitle is the title for the current visualization.
func (g *Game) WindowTitle() string {
	return Title + " - Visualization: " + g.mode.Title()
}

// Solver returns the current solver. It changes on Reset.
func (g *Game) Solver() *fluid.Solver {
	return g.solver
}

// Mode returns the visualization mode.
func (g *Game) Mode() renderer.Mode {
	return g.mode
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Steps returns solver steps taken since start, across resets.
func (g *Game) Steps() int64 {
	return g.totalSteps
}

// SimTime returns simulated seconds since start.
func (g *Game) SimTime() float64 {
	return float64(g.totalSteps) * g.cfg.Solver.DT
}

// Unload releases the solver, GPU resources and output files.
func (g *Game) Unload() {
	g.solver.Close()
	if !g.headless {
		g.water.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
