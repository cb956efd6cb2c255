package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowing(t *testing.T) {
	c := NewCollector(0.05, 0.0001)

	if got := c.WindowDurationSteps(); got != 500 {
		t.Fatalf("WindowDurationSteps = %d, want 500", got)
	}
	if c.ShouldFlush(499) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(500) {
		t.Error("should flush at the window end")
	}
}

func TestCollectorTinyWindow(t *testing.T) {
	c := NewCollector(0, 0.01)
	if got := c.WindowDurationSteps(); got != 1 {
		t.Errorf("WindowDurationSteps = %d, want 1", got)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1, 0.5)

	c.RecordStep(0, 0, 1)
	c.RecordStep(3, 1, 0)
	c.RecordReset()

	stats := c.Flush(2, Sample{
		Densities:     []float64{1000, 2000, 3000},
		Pressures:     []float64{0, 0, 600},
		Speeds2:       []float64{0, 4, 16},
		KineticEnergy: 2.5,
		MomentumX:     0.3,
	})

	if stats.Steps != 2 || stats.IsolatedParticles != 3 || stats.FlooredDensities != 1 || stats.Interactions != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.Resets != 1 {
		t.Errorf("Resets = %d, want 1", stats.Resets)
	}
	if stats.Particles != 3 {
		t.Errorf("Particles = %d, want 3", stats.Particles)
	}
	if math.Abs(stats.DensityMean-2000) > 1e-9 {
		t.Errorf("DensityMean = %v, want 2000", stats.DensityMean)
	}
	if stats.PressureMax != 600 {
		t.Errorf("PressureMax = %v, want 600", stats.PressureMax)
	}
	if stats.SpeedMax != 4 {
		t.Errorf("SpeedMax = %v, want 4", stats.SpeedMax)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-12 {
		t.Errorf("SimTimeSec = %v, want 1", stats.SimTimeSec)
	}

	// Counters reset for the next window.
	next := c.Flush(4, Sample{})
	if next.WindowStartStep != 2 {
		t.Errorf("WindowStartStep = %d, want 2", next.WindowStartStep)
	}
	if next.Steps != 0 || next.IsolatedParticles != 0 || next.Resets != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
