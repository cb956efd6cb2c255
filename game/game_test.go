package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/fluid"
	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/telemetry"
)

// smallConfig is a 10x20 block, cheap enough to step in tests.
func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Fluid.ParticlesPerAxis = 20
	cfg.Solver.Workers = 1
	cfg.ComputeDerived()
	return cfg
}

func newHeadlessGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = smallConfig()
	}
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	require.NoError(t, err)
	t.Cleanup(g.Unload)
	return g
}

func TestUpdateHeadlessAdvances(t *testing.T) {
	g := newHeadlessGame(t, Options{StepsPerUpdate: 3})

	require.NoError(t, g.UpdateHeadless())
	require.NoError(t, g.UpdateHeadless())

	assert.Equal(t, int64(6), g.Steps())
	assert.Equal(t, uint64(6), g.Solver().Steps())
	assert.InDelta(t, 6*g.cfg.Solver.DT, g.SimTime(), 1e-15)
	assert.True(t, g.Solver().InDomain())
}

func TestResetKeepsStepCount(t *testing.T) {
	g := newHeadlessGame(t, Options{})
	require.NoError(t, g.UpdateHeadless())
	before := g.Solver()

	require.NoError(t, g.Reset())

	assert.NotSame(t, before, g.Solver())
	assert.Zero(t, g.Solver().Steps())
	assert.Equal(t, int64(1), g.Steps())
	assert.Equal(t, 200, len(g.Solver().Particles()))
}

func TestResetWithModeSwitchesVisualization(t *testing.T) {
	g := newHeadlessGame(t, Options{})
	g.resetWithMode(renderer.ModePressure)

	assert.Equal(t, renderer.ModePressure, g.Mode())
	assert.Equal(t, "Smoothed Particle Hydrodynamics - Visualization: Particle pressure", g.WindowTitle())
}

func TestInteractQueuesForceAndRipple(t *testing.T) {
	g := newHeadlessGame(t, Options{})
	p := g.Solver().Particles()[0].Position

	g.Interact(p, false)
	g.Interact(p, true)
	assert.Equal(t, 2, g.ripples.Count())

	require.NoError(t, g.UpdateHeadless())
	assert.Equal(t, 2, g.Solver().Stats().Interactions)
}

func TestStatsWindowsAndOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()

	var windows []telemetry.WindowStats
	g := newHeadlessGame(t, Options{
		Config:         cfg,
		OutputDir:      dir,
		StatsWindowSec: 10 * cfg.Solver.DT,
		StepsPerUpdate: 5,
	})
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })

	for i := 0; i < 4; i++ {
		require.NoError(t, g.UpdateHeadless())
	}

	require.Len(t, windows, 2)
	assert.Equal(t, int64(10), windows[0].WindowEndStep)
	assert.Equal(t, int64(20), windows[1].WindowEndStep)
	assert.Equal(t, 10, windows[1].Steps)
	assert.Equal(t, 200, windows[1].Particles)
	assert.Greater(t, windows[1].DensityMean, 0.0)

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestSnapshotRestore(t *testing.T) {
	cfg := smallConfig()
	g := newHeadlessGame(t, Options{Config: cfg})
	require.NoError(t, g.UpdateHeadless())
	require.NoError(t, g.UpdateHeadless())

	path, err := telemetry.SaveSnapshot(g.createSnapshot(nil), t.TempDir())
	require.NoError(t, err)

	restored := newHeadlessGame(t, Options{Config: cfg, RestorePath: path})

	assert.Equal(t, g.Steps(), restored.Steps())
	want := g.Solver().Particles()
	got := restored.Solver().Particles()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Position, got[i].Position)
		assert.Equal(t, want[i].Velocity, got[i].Velocity)
	}
}

func TestSnapshotRestoreRejectsOtherDomain(t *testing.T) {
	cfg := smallConfig()
	g := newHeadlessGame(t, Options{Config: cfg})
	path, err := telemetry.SaveSnapshot(g.createSnapshot(nil), t.TempDir())
	require.NoError(t, err)

	other := smallConfig()
	other.Domain.Width = 4
	other.ComputeDerived()

	_, err = NewGameWithOptions(Options{Config: other, RestorePath: path, Headless: true})
	assert.True(t, errors.Is(err, fluid.ErrInvalidParams), "got %v", err)
}

func TestInteractOutsideDomainIsHarmless(t *testing.T) {
	g := newHeadlessGame(t, Options{})
	g.Interact(r2.Vec{X: -5, Y: -5}, false)
	require.NoError(t, g.UpdateHeadless())
	assert.True(t, g.Solver().InDomain())
}
