package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Phase names for the simulation step, in pipeline order.
const (
	PhaseNeighbors = "neighbors"
	PhaseDensity   = "density"
	PhasePressure  = "pressure"
	PhaseForces    = "forces"
	PhaseIntegrate = "integrate"
	PhaseBoundary  = "boundary"
	PhaseRebuild   = "rebuild"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in pipeline order.
var Phases = []string{
	PhaseNeighbors, PhaseDensity, PhasePressure, PhaseForces,
	PhaseIntegrate, PhaseBoundary, PhaseRebuild, PhaseTelemetry,
}

// PerfCollector tracks per-phase timing over a rolling window of ticks.
// A tick may run several solver steps; repeated phases accumulate.
type PerfCollector struct {
	windowSize  int
	ticks       []float64   // tick durations in ns, ring buffer
	phases      [][]float64 // phase durations in ns, [slot][phase index]
	writeIndex  int
	sampleCount int

	phaseIndex map[string]int
	phaseNames []string

	current    []float64
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  int // -1 when no phase is open

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		windowSize: windowSize,
		ticks:      make([]float64, windowSize),
		phases:     make([][]float64, windowSize),
		phaseIndex: make(map[string]int, len(Phases)),
		lastPhase:  -1,
	}
	for _, name := range Phases {
		p.indexOf(name)
	}
	return p
}

func (p *PerfCollector) indexOf(phase string) int {
	if idx, ok := p.phaseIndex[phase]; ok {
		return idx
	}
	idx := len(p.phaseNames)
	p.phaseIndex[phase] = idx
	p.phaseNames = append(p.phaseNames, phase)
	p.current = append(p.current, 0)
	return idx
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	for i := range p.current {
		p.current[i] = 0
	}
	p.lastPhase = -1
}

// StartPhase closes the open phase, if any, and begins timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.lastPhase = p.indexOf(phase)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.lastPhase >= 0 {
		p.current[p.lastPhase] += float64(now.Sub(p.phaseStart))
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.lastPhase = -1

	slot := p.writeIndex
	p.ticks[slot] = float64(now.Sub(p.tickStart))
	p.phases[slot] = append(p.phases[slot][:0], p.current...)

	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	ticks := p.ticks[:p.sampleCount]
	avg := floats.Sum(ticks) / float64(p.sampleCount)
	stats.AvgTickDuration = time.Duration(avg)
	stats.MinTickDuration = time.Duration(floats.Min(ticks))
	stats.MaxTickDuration = time.Duration(floats.Max(ticks))
	if avg > 0 {
		stats.TicksPerSecond = float64(time.Second) / avg
	}

	sums := make([]float64, len(p.phaseNames))
	for _, sample := range p.phases[:p.sampleCount] {
		// Samples recorded before a phase was first seen are shorter.
		floats.Add(sums[:len(sample)], sample)
	}
	for idx, sum := range sums {
		if sum == 0 {
			continue
		}
		phaseAvg := sum / float64(p.sampleCount)
		name := p.phaseNames[idx]
		stats.PhaseAvg[name] = time.Duration(phaseAvg)
		if avg > 0 {
			stats.PhasePct[name] = phaseAvg / avg * 100
		}
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	NeighborsPct float64 `csv:"neighbors_pct"`
	DensityPct   float64 `csv:"density_pct"`
	PressurePct  float64 `csv:"pressure_pct"`
	ForcesPct    float64 `csv:"forces_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	BoundaryPct  float64 `csv:"boundary_pct"`
	RebuildPct   float64 `csv:"rebuild_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		NeighborsPct: s.PhasePct[PhaseNeighbors],
		DensityPct:   s.PhasePct[PhaseDensity],
		PressurePct:  s.PhasePct[PhasePressure],
		ForcesPct:    s.PhasePct[PhaseForces],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		BoundaryPct:  s.PhasePct[PhaseBoundary],
		RebuildPct:   s.PhasePct[PhaseRebuild],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
