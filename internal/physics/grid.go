package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection in a bounded
// play area. Objects are inserted by position and index, then nearby objects can
// be queried via a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that all potential collisions are found within
// the 3x3 neighborhood. Positions outside the area are clamped to the edge
// cells, which keeps that guarantee for objects just off the edges.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between ticks (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// maxGridCells bounds the grid allocation for very large play areas.
const maxGridCells = 1 << 16

// NewSpatialGrid creates a spatial grid covering the given area dimensions.
// cellSize should be >= the maximum collision distance for the objects being inserted.
// Cells grow beyond cellSize when the area would need more than maxGridCells.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	for math.Ceil(width/cellSize)*math.Ceil(height/cellSize) > maxGridCells {
		cellSize *= 2
	}
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(p Point, index int) {
	col, row := g.posToCell(p)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around p. Cells beyond the grid edges are skipped.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(p Point, fn func(index int) bool) {
	col, row := g.posToCell(p)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		rowOffset := r * g.cols

		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts coordinates to grid cell coordinates, clamped to the grid.
func (g *SpatialGrid) posToCell(p Point) (col, row int) {
	col = int(math.Floor(p.X * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(p.Y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
