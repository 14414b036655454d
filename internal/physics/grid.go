package physics

import (
	"math"
	"slices"
)

// RectGrid is a uniform grid for broad-phase overlap tests in a bounded arena.
// Rects are inserted by index into every cell they cover; rects reaching
// past the arena edge are folded into the border cells.
//
// Queries return candidate indices in ascending order with duplicates
// removed, so callers that care about insertion order (first hit wins)
// get the same answer as a linear scan.
type RectGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
	queryBuf    []int
}

// gridCell stores the indices of rects that touch a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewRectGrid creates a grid covering the given arena dimensions.
func NewRectGrid(width, height, cellSize float64) *RectGrid {
	if cellSize <= 0 {
		cellSize = 64
	}
	g := &RectGrid{cellSize: cellSize, invCellSize: 1.0 / cellSize}
	g.Resize(width, height)
	return g
}

// Resize adapts the grid to new arena dimensions and empties it.
// Cell storage is kept when the cell count does not change.
func (g *RectGrid) Resize(width, height float64) {
	cols := int(math.Ceil(width * g.invCellSize))
	rows := int(math.Ceil(height * g.invCellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols == g.cols && rows == g.rows {
		g.Clear()
		return
	}
	g.cols = cols
	g.rows = rows
	g.cells = make([]gridCell, cols*rows)
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *RectGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) to every cell r covers.
func (g *RectGrid) Insert(r Rect, index int) {
	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		offset := row * g.cols
		for col := c0; col <= c1; col++ {
			cell := &g.cells[offset+col]
			cell.items = append(cell.items, index)
		}
	}
}

// Query calls fn for each distinct item index whose cells overlap r,
// in ascending index order. If fn returns true, iteration stops early.
// Candidates still need an exact Intersects test.
func (g *RectGrid) Query(r Rect, fn func(index int) bool) {
	c0, r0, c1, r1 := g.span(r)
	buf := g.queryBuf[:0]
	for row := r0; row <= r1; row++ {
		offset := row * g.cols
		for col := c0; col <= c1; col++ {
			buf = append(buf, g.cells[offset+col].items...)
		}
	}
	slices.Sort(buf)
	buf = slices.Compact(buf)
	g.queryBuf = buf

	for _, idx := range buf {
		if fn(idx) {
			return
		}
	}
}

// span returns the inclusive cell range covered by r, clamped to the grid.
func (g *RectGrid) span(r Rect) (c0, r0, c1, r1 int) {
	c0, r0 = g.posToCell(r.X, r.Y)
	c1, r1 = g.posToCell(r.X+r.Width, r.Y+r.Height)
	return c0, r0, c1, r1
}

// posToCell converts arena coordinates to grid cell coordinates.
// Clamps to valid range so off-arena positions land in border cells.
func (g *RectGrid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
