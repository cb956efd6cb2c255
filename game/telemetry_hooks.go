package game

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/fluid"
	"github.com/pthm-cable/sph/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.totalSteps) {
		return
	}

	stats := g.collector.Flush(g.totalSteps, g.sample())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndStep); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// sample captures the fluid state for the stats window.
func (g *Game) sample() telemetry.Sample {
	momentum := g.solver.TotalMomentum()
	return telemetry.Sample{
		Densities:     g.solver.Densities(nil),
		Pressures:     g.solver.Pressures(nil),
		Speeds2:       g.solver.Speeds2(nil),
		KineticEnergy: g.solver.KineticEnergy(),
		MomentumX:     momentum.X,
		MomentumY:     momentum.Y,
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "step", g.totalSteps)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	particles := g.solver.Particles()
	snapshot := &telemetry.Snapshot{
		Version:      telemetry.SnapshotVersion,
		DomainWidth:  g.params.Width,
		DomainHeight: g.params.Height,
		KernelRange:  g.params.KernelRange,
		Step:         g.totalSteps,
		Particles:    make([]telemetry.ParticleState, len(particles)),
		Bookmark:     bookmark,
	}
	for i := range particles {
		p := &particles[i]
		snapshot.Particles[i] = telemetry.ParticleState{
			X:    p.Position.X,
			Y:    p.Position.Y,
			VelX: p.Velocity.X,
			VelY: p.Velocity.Y,
		}
	}
	return snapshot
}

// restoreSolver builds a solver from a snapshot file and returns the step it
// was taken at. The snapshot must come from the same domain and kernel range.
func restoreSolver(params fluid.Params, path string) (*fluid.Solver, int64, error) {
	snapshot, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return nil, 0, err
	}
	if snapshot.DomainWidth != params.Width || snapshot.DomainHeight != params.Height ||
		snapshot.KernelRange != params.KernelRange {
		return nil, 0, fmt.Errorf("%w: snapshot domain %gx%g h=%g does not match config %gx%g h=%g",
			fluid.ErrInvalidParams,
			snapshot.DomainWidth, snapshot.DomainHeight, snapshot.KernelRange,
			params.Width, params.Height, params.KernelRange)
	}

	positions := make([]r2.Vec, len(snapshot.Particles))
	velocities := make([]r2.Vec, len(snapshot.Particles))
	for i, ps := range snapshot.Particles {
		positions[i] = r2.Vec{X: ps.X, Y: ps.Y}
		velocities[i] = r2.Vec{X: ps.VelX, Y: ps.VelY}
	}

	solver, err := fluid.NewFromState(params, positions, velocities)
	if err != nil {
		return nil, 0, err
	}
	slog.Info("restored snapshot", "path", path, "step", snapshot.Step, "particles", len(positions))
	return solver, snapshot.Step, nil
}
