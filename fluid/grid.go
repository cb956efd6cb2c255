package fluid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Grid partitions the domain into square cells of the kernel range.
// Cells hold particle indices and are stored flat, row-major.
type Grid struct {
	cellSize float64
	width    float64
	height   float64
	cols     int
	rows     int
	cells    [][]int
}

// NewGrid creates a grid covering a width x height domain with cell size h.
func NewGrid(width, height, h float64) *Grid {
	cols := int(math.Ceil(width/h)) + 1
	rows := int(math.Ceil(height/h)) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}

	return &Grid{
		cellSize: h,
		width:    width,
		height:   height,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Cols returns the number of cells along x.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of cells along y.
func (g *Grid) Rows() int { return g.rows }

// CellSize returns the edge length of a cell.
func (g *Grid) CellSize() float64 { return g.cellSize }

// UpdateStructure clears all cells and reinserts every particle by index.
// Positions must lie in [0, width] x [0, height]; anything else returns
// an error wrapping ErrOutOfDomain and leaves the grid partially filled.
func (g *Grid) UpdateStructure(particles []Particle) error {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}

	for i := range particles {
		pos := particles[i].Position
		if !g.contains(pos) {
			return fmt.Errorf("%w: particle %d at (%g, %g)", ErrOutOfDomain, i, pos.X, pos.Y)
		}
		cx, cy := g.CellOf(pos)
		idx := cy*g.cols + cx
		g.cells[idx] = append(g.cells[idx], i)
	}
	return nil
}

// CellOf returns the integer cell coordinates containing p.
// p is assumed to be inside the domain.
func (g *Grid) CellOf(p r2.Vec) (cx, cy int) {
	return int(p.X / g.cellSize), int(p.Y / g.cellSize)
}

// Cell returns the particle indices of a cell. The slice aliases grid storage.
func (g *Grid) Cell(cx, cy int) []int {
	if cx < 0 || cy < 0 || cx >= g.cols || cy >= g.rows {
		return nil
	}
	return g.cells[cy*g.cols+cx]
}

// NeighboringCellsInto appends the cell containing p and its up to eight
// neighbors to dst, skipping cells outside the grid. Appended slices alias
// grid storage and are valid until the next UpdateStructure.
func (g *Grid) NeighboringCellsInto(dst [][]int, p r2.Vec) [][]int {
	cx, cy := g.CellOf(p)

	for dy := -1; dy <= 1; dy++ {
		y := cy + dy
		if y < 0 || y >= g.rows {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			x := cx + dx
			if x < 0 || x >= g.cols {
				continue
			}
			dst = append(dst, g.cells[y*g.cols+x])
		}
	}
	return dst
}

// NeighboringCells returns the 3x3 cell neighborhood of p.
// Use NeighboringCellsInto on hot paths.
func (g *Grid) NeighboringCells(p r2.Vec) [][]int {
	return g.NeighboringCellsInto(make([][]int, 0, 9), p)
}

func (g *Grid) contains(p r2.Vec) bool {
	// NaN fails every comparison.
	return p.X >= 0 && p.X <= g.width && p.Y >= 0 && p.Y <= g.height
}
