// Package effects keeps short-lived visual markers for pointer interactions.
package effects

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Position is a ripple center in domain meters.
type Position struct {
	X, Y float64
}

// Ripple is an expanding ring left where the fluid was pushed or pulled.
type Ripple struct {
	Age     float64
	Life    float64
	Attract bool
}

// Progress returns the ripple's age as a fraction of its life in [0, 1].
func (r *Ripple) Progress() float64 {
	if r.Life <= 0 {
		return 1
	}
	p := r.Age / r.Life
	if p > 1 {
		return 1
	}
	return p
}

const (
	defaultLife       = 0.35 // seconds of wall time
	defaultMaxRipples = 64
)

// Ripples manages ripple entities in their own ECS world.
type Ripples struct {
	world  *ecs.World
	mapper *ecs.Map2[Position, Ripple]
	filter *ecs.Filter2[Position, Ripple]

	life  float64
	max   int
	count int

	expired []ecs.Entity
}

// NewRipples creates an empty ripple store.
func NewRipples() *Ripples {
	world := ecs.NewWorld()
	return &Ripples{
		world:  world,
		mapper: ecs.NewMap2[Position, Ripple](world),
		filter: ecs.NewFilter2[Position, Ripple](world),
		life:   defaultLife,
		max:    defaultMaxRipples,
	}
}

// SetLife sets the lifetime of newly spawned ripples.
func (r *Ripples) SetLife(seconds float64) {
	if seconds > 0 {
		r.life = seconds
	}
}

// Spawn adds a ripple at point. Returns false when the store is full.
func (r *Ripples) Spawn(point r2.Vec, attract bool) bool {
	if r.count >= r.max {
		return false
	}
	pos := Position{X: point.X, Y: point.Y}
	rip := Ripple{Life: r.life, Attract: attract}
	r.mapper.NewEntity(&pos, &rip)
	r.count++
	return true
}

// Update ages all ripples by dt and removes the expired ones.
func (r *Ripples) Update(dt float64) {
	r.expired = r.expired[:0]

	query := r.filter.Query()
	for query.Next() {
		_, rip := query.Get()
		rip.Age += dt
		if rip.Age >= rip.Life {
			r.expired = append(r.expired, query.Entity())
		}
	}

	// Structural changes are not allowed while the query holds the world.
	for _, e := range r.expired {
		if r.world.Alive(e) {
			r.world.RemoveEntity(e)
			r.count--
		}
	}
}

// Each calls fn for every live ripple.
func (r *Ripples) Each(fn func(pos Position, rip Ripple)) {
	query := r.filter.Query()
	for query.Next() {
		pos, rip := query.Get()
		fn(*pos, *rip)
	}
}

// Count returns the number of live ripples.
func (r *Ripples) Count() int {
	return r.count
}

// Clear removes every ripple.
func (r *Ripples) Clear() {
	r.expired = r.expired[:0]
	query := r.filter.Query()
	for query.Next() {
		r.expired = append(r.expired, query.Entity())
	}
	for _, e := range r.expired {
		r.world.RemoveEntity(e)
	}
	r.count = 0
}
