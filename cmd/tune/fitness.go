package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/game"
	"github.com/pthm-cable/sph/telemetry"
)

// Scenario is one headless run used to score a parameter vector.
type Scenario struct {
	Name string
	// SplashAt is the fraction of the run after which a repulsion is applied
	// at the block center; 0 disables it.
	SplashAt float64
}

// DefaultScenarios are a settling dam and a dam hit by a pointer push.
var DefaultScenarios = []Scenario{
	{Name: "dam"},
	{Name: "splash", SplashAt: 0.3},
}

// Fitness component weights.
const (
	weightCompression = 1.0
	weightAgitation   = 0.5
	weightIsolated    = 10.0

	failedFitness = 1e6

	warmupWindows = 2
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxSteps    int64
	scenarios   []Scenario
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	lastDetail  Breakdown
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int64, scenarios []Scenario, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxSteps:    maxSteps,
		scenarios:   scenarios,
		baseConfig:  baseCfg,
		statsWindow: baseCfg.Telemetry.StatsWindow,
		bestFitness: math.Inf(1),
	}
}

// LastDetail returns the fitness breakdown of the most recent evaluation.
func (fe *FitnessEvaluator) LastDetail() Breakdown {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDetail
}

// Breakdown is the per-component fitness, averaged over scenarios.
type Breakdown struct {
	Compression float64
	Agitation   float64
	Isolated    float64
	Failed      int
}

// Total combines the components into the scalar fitness (lower = better).
func (b Breakdown) Total() float64 {
	if b.Failed > 0 {
		return failedFitness * float64(b.Failed)
	}
	return weightCompression*b.Compression + weightAgitation*b.Agitation + weightIsolated*b.Isolated
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all scenarios in parallel
	results := make([]Breakdown, len(fe.scenarios))
	var wg sync.WaitGroup
	for i, sc := range fe.scenarios {
		wg.Add(1)
		go func(idx int, sc Scenario) {
			defer wg.Done()
			windows, err := fe.runScenario(cfg, sc)
			if err != nil {
				slog.Debug("scenario failed", "scenario", sc.Name, "error", err)
				results[idx] = Breakdown{Failed: 1}
				return
			}
			results[idx] = score(cfg, windows)
		}(i, sc)
	}
	wg.Wait()

	var avg Breakdown
	for _, r := range results {
		avg.Compression += r.Compression
		avg.Agitation += r.Agitation
		avg.Isolated += r.Isolated
		avg.Failed += r.Failed
	}
	n := float64(len(results))
	avg.Compression /= n
	avg.Agitation /= n
	avg.Isolated /= n

	fitness := avg.Total()

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.lastDetail = avg
	fe.mu.Unlock()

	return fitness
}

// runScenario executes one headless run and returns its stats windows.
func (fe *FitnessEvaluator) runScenario(base *config.Config, sc Scenario) ([]telemetry.WindowStats, error) {
	cfg := *base
	// One worker per run; scenarios run in parallel.
	cfg.Solver.Workers = 1

	g, err := game.NewGameWithOptions(game.Options{
		Config:         &cfg,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})

	splashStep := int64(-1)
	if sc.SplashAt > 0 {
		splashStep = int64(sc.SplashAt * float64(fe.maxSteps))
	}
	p := g.Solver().Params()
	center := r2.Vec{X: p.Width / 2, Y: p.Height - p.LayoutHeight/2}

	for g.Steps() < fe.maxSteps {
		if g.Steps() == splashStep {
			g.Interact(center, false)
		}
		if err := g.UpdateHeadless(); err != nil {
			return windows, err
		}
	}
	return windows, nil
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// score turns stats windows into a fitness breakdown:
// compression is the mean p90 density overshoot relative to rest density,
// agitation the mean median speed relative to the free-fall speed over the
// domain height, isolated the mean isolated-particle fraction per step.
func score(cfg *config.Config, windows []telemetry.WindowStats) Breakdown {
	if len(windows) <= warmupWindows {
		return Breakdown{}
	}
	valid := windows[warmupWindows:]

	rest := cfg.Fluid.RestDensity
	accel := cfg.Fluid.Gravity / rest
	speedScale := math.Sqrt(math.Max(accel*cfg.Domain.Height, 1e-9))

	compression := make([]float64, len(valid))
	agitation := make([]float64, len(valid))
	isolated := make([]float64, len(valid))
	for i, w := range valid {
		compression[i] = math.Max(w.DensityP90/rest-1, 0)
		agitation[i] = w.SpeedP50 / speedScale
		if w.Steps > 0 && w.Particles > 0 {
			isolated[i] = float64(w.IsolatedParticles) / float64(w.Steps*w.Particles)
		}
	}

	return Breakdown{
		Compression: stat.Mean(compression, nil),
		Agitation:   stat.Mean(agitation, nil),
		Isolated:    stat.Mean(isolated, nil),
	}
}
