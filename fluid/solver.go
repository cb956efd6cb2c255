package fluid

import (
	"fmt"
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/telemetry"
)

// StageTimer receives a call as each pipeline stage begins.
// *telemetry.PerfCollector satisfies it.
type StageTimer interface {
	StartPhase(phase string)
}

// Solver owns the particles and the grid and advances them one step per Update.
//
// Update, Reset and the read accessors must be called from one goroutine.
// ApplyRepulsion and ApplyAttraction may be called from any goroutine.
type Solver struct {
	params  Params
	kernels Kernels

	particles []Particle
	grid      *Grid
	neighbors [][]int

	pool    *workerPool
	scratch [][][]int // per-worker cell buffers

	interactions interactionQueue
	drained      []Interaction

	dt      float64
	steps   uint64
	stats   StepStats
	healthy bool
	timer   StageTimer
}

// New creates a solver with particles laid out on the initial block.
func New(params Params) (*Solver, error) {
	if err := params.validateLayout(); err != nil {
		return nil, err
	}
	return NewFromPositions(params, blockLayout(params))
}

// NewFromPositions creates a solver with one resting particle per position.
// The layout fields of params are ignored.
func NewFromPositions(params Params, positions []r2.Vec) (*Solver, error) {
	return NewFromState(params, positions, nil)
}

// NewFromState creates a solver from saved positions and velocities.
// velocities may be nil for a fluid at rest; otherwise it must match positions.
func NewFromState(params Params, positions, velocities []r2.Vec) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no particles", ErrInvalidParams)
	}
	if velocities != nil && len(velocities) != len(positions) {
		return nil, fmt.Errorf("%w: %d velocities for %d positions", ErrInvalidParams, len(velocities), len(positions))
	}

	particles := make([]Particle, len(positions))
	for i, pos := range positions {
		particles[i] = Particle{Position: pos, Mass: params.Mass}
		if velocities != nil {
			particles[i].Velocity = velocities[i]
		}
	}

	pool := newWorkerPool(params.Workers, params.ParallelThreshold)
	scratch := make([][][]int, pool.numWorkers)
	for i := range scratch {
		scratch[i] = make([][]int, 0, 9)
	}

	neighbors := make([][]int, len(particles))
	for i := range neighbors {
		neighbors[i] = make([]int, 0, 32)
	}

	s := &Solver{
		params:    params,
		kernels:   NewKernels(params.KernelRange),
		particles: particles,
		grid:      NewGrid(params.Width, params.Height, params.KernelRange),
		neighbors: neighbors,
		pool:      pool,
		scratch:   scratch,
		healthy:   true,
	}

	if err := s.grid.UpdateStructure(s.particles); err != nil {
		return nil, fmt.Errorf("initial layout: %w", err)
	}

	slog.Debug("fluid solver initialized",
		"particles", len(particles),
		"kernel_range", params.KernelRange,
		"grid_cols", s.grid.Cols(),
		"grid_rows", s.grid.Rows(),
		"workers", pool.numWorkers,
	)

	return s, nil
}

// blockLayout places ParticlesX x ParticlesY particles on an evenly spaced
// block, centered horizontally and resting on the floor (y = Height).
func blockLayout(p Params) []r2.Vec {
	left := (p.Width - p.LayoutWidth) / 2
	top := p.Height - p.LayoutHeight
	dx := p.LayoutWidth / float64(p.ParticlesX)
	dy := p.LayoutHeight / float64(p.ParticlesY)

	positions := make([]r2.Vec, 0, p.ParticlesX*p.ParticlesY)
	for i := 0; i < p.ParticlesX; i++ {
		for j := 0; j < p.ParticlesY; j++ {
			positions = append(positions, r2.Vec{
				X: left + float64(i)*dx,
				Y: top + float64(j)*dy,
			})
		}
	}
	return positions
}

// Reset stops this solver and returns a fresh one built from the same
// parameters. Pending interactions are discarded. The receiver must not be
// used afterwards.
func (s *Solver) Reset() (*Solver, error) {
	s.Close()
	fresh, err := New(s.params)
	if err != nil {
		return nil, err
	}
	fresh.timer = s.timer
	return fresh, nil
}

// Close stops the worker pool. The solver still works afterwards but runs
// stages by restarting the pool on demand.
func (s *Solver) Close() {
	s.pool.stopWorkers()
}

// SetStageTimer installs a timer notified at each stage boundary. nil disables timing.
func (s *Solver) SetStageTimer(t StageTimer) {
	s.timer = t
}

// Update advances the simulation by dt, running every stage to completion
// before the next one starts.
func (s *Solver) Update(dt float64) error {
	if !(dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, dt)
	}
	s.dt = dt
	s.stats = StepStats{}
	n := len(s.particles)

	s.phase(telemetry.PhaseNeighbors)
	s.pool.run(n, s.findNeighborhoods)

	s.phase(telemetry.PhaseDensity)
	s.pool.run(n, s.computeDensity)
	s.checkDensities()

	s.phase(telemetry.PhasePressure)
	s.pool.run(n, s.computePressure)

	s.phase(telemetry.PhaseForces)
	s.drained = s.interactions.drain(s.drained[:0])
	s.stats.Interactions = len(s.drained)
	s.pool.run(n, s.computeForces)

	s.phase(telemetry.PhaseIntegrate)
	s.pool.run(n, s.integrate)

	s.phase(telemetry.PhaseBoundary)
	s.pool.run(n, s.resolveBoundaries)

	s.phase(telemetry.PhaseRebuild)
	s.pool.run(n, s.clearForces)
	if err := s.grid.UpdateStructure(s.particles); err != nil {
		return fmt.Errorf("step %d: %w", s.steps, err)
	}

	s.steps++
	s.reportHealth()
	return nil
}

func (s *Solver) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// Particles returns the particle state. Callers must treat it as read-only
// and must not hold it across Update.
func (s *Solver) Particles() []Particle { return s.particles }

// Neighbors returns the neighbor indices of particle i from the last update,
// including i itself.
func (s *Solver) Neighbors(i int) []int { return s.neighbors[i] }

// Grid returns the spatial grid.
func (s *Solver) Grid() *Grid { return s.grid }

// Params returns the parameters the solver was built from.
func (s *Solver) Params() Params { return s.params }

// Kernels returns the smoothing kernels in use.
func (s *Solver) Kernels() Kernels { return s.kernels }

// Steps returns the number of completed updates.
func (s *Solver) Steps() uint64 { return s.steps }

// Stats returns counters from the last update.
func (s *Solver) Stats() StepStats { return s.stats }

// interactionQueue is a mutex-guarded buffer of pending pointer forces.
type interactionQueue struct {
	mu      sync.Mutex
	pending []Interaction
}

func (q *interactionQueue) push(in Interaction) {
	q.mu.Lock()
	q.pending = append(q.pending, in)
	q.mu.Unlock()
}

// drain appends all pending interactions to dst in arrival order and empties the queue.
func (q *interactionQueue) drain(dst []Interaction) []Interaction {
	q.mu.Lock()
	dst = append(dst, q.pending...)
	q.pending = q.pending[:0]
	q.mu.Unlock()
	return dst
}
