// Package fluid implements a 2D smoothed particle hydrodynamics solver.
//
// A Solver owns a fixed set of particles and a uniform grid sized to the
// kernel range. Each Update runs neighbor search, density, pressure, force
// accumulation, integration, boundary resolution and a grid rebuild, in that
// order, with a barrier between stages.
package fluid

import "errors"

var (
	// ErrOutOfDomain is returned when a grid rebuild sees a position outside
	// the domain or a non-finite coordinate.
	ErrOutOfDomain = errors.New("fluid: position out of domain")

	// ErrInvalidParams is returned when parameters cannot produce a solver.
	ErrInvalidParams = errors.New("fluid: invalid parameters")
)
