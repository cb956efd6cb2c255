// Package telemetry collects per-stage timing and windowed fluid statistics.
package telemetry

import "math"

// Collector accumulates per-step counters within windows of simulated time
// and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationSteps int64
	dt                  float64

	windowStartStep int64

	// Counters for the current window
	steps        int
	isolated     int
	floored      int
	interactions int
	resets       int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per solver step
func NewCollector(windowDurationSec, dt float64) *Collector {
	steps := int64(math.Round(windowDurationSec / dt))
	if steps < 1 {
		steps = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationSteps: steps,
		dt:                  dt,
	}
}

// StartAt sets the step the first window begins at, e.g. after restoring a snapshot.
func (c *Collector) StartAt(step int64) {
	c.windowStartStep = step
}

// RecordStep adds the counters of one solver step.
func (c *Collector) RecordStep(isolated, floored, interactions int) {
	c.steps++
	c.isolated += isolated
	c.floored += floored
	c.interactions += interactions
}

// RecordReset records a solver reset.
func (c *Collector) RecordReset() {
	c.resets++
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(currentStep int64) bool {
	return currentStep-c.windowStartStep >= c.windowDurationSteps
}

// Sample is the fluid state captured at the end of a window.
type Sample struct {
	Densities     []float64
	Pressures     []float64
	Speeds2       []float64
	KineticEnergy float64
	MomentumX     float64
	MomentumY     float64
}

// Flush produces a WindowStats and resets counters for the next window.
// currentStep counts steps since the simulation started, across resets.
func (c *Collector) Flush(currentStep int64, sample Sample) WindowStats {
	density := ComputeDistribution(sample.Densities)
	pressure := ComputeDistribution(sample.Pressures)
	speed := ComputeDistribution(sample.Speeds2)

	stats := WindowStats{
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   currentStep,
		SimTimeSec:      float64(currentStep) * c.dt,

		Particles: len(sample.Densities),

		DensityMean: density.Mean,
		DensityStd:  density.Std,
		DensityP10:  density.P10,
		DensityP50:  density.P50,
		DensityP90:  density.P90,

		PressureMean: pressure.Mean,
		PressureMax:  pressure.Max,

		KineticEnergy: sample.KineticEnergy,
		MomentumX:     sample.MomentumX,
		MomentumY:     sample.MomentumY,
		SpeedP50:      math.Sqrt(speed.P50),
		SpeedMax:      math.Sqrt(speed.Max),

		Steps:             c.steps,
		IsolatedParticles: c.isolated,
		FlooredDensities:  c.floored,
		Interactions:      c.interactions,
		Resets:            c.resets,
	}

	// Reset for next window
	c.windowStartStep = currentStep
	c.steps = 0
	c.isolated = 0
	c.floored = 0
	c.interactions = 0
	c.resets = 0

	return stats
}

// WindowDurationSteps returns the number of solver steps per window.
func (c *Collector) WindowDurationSteps() int64 {
	return c.windowDurationSteps
}
