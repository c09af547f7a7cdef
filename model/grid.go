package model

import (
	"github.com/pkg/errors"
)

// Grid dimensions match the 7-day by 53-week layout of a contribution graph.
const (
	Rows = 7
	Cols = 53
)

var (
	// ErrDimension reports input whose shape is not exactly Rows×Cols.
	ErrDimension = errors.New("invalid grid dimensions")
	// ErrBounds reports a row or column index outside the grid.
	ErrBounds = errors.New("index out of bounds")
)

// Grid is an immutable Rows×Cols board of CellState values. All mutating
// operations on the simulation produce a new Grid; a constructed Grid never
// changes.
type Grid struct {
	cells [Rows][Cols]CellState
}

// NewGrid validates and copies a rectangular collection of cell states.
// This is the single validation chokepoint: a *Grid obtained here (or from
// the named constructors) always holds exactly Rows×Cols valid states.
func NewGrid(cells [][]CellState) (*Grid, error) {
	if len(cells) != Rows {
		return nil, errors.Wrapf(ErrDimension, "[NewGrid] grid must have %d rows, got %d", Rows, len(cells))
	}
	g := &Grid{}
	for r, row := range cells {
		if len(row) != Cols {
			return nil, errors.Wrapf(ErrDimension, "[NewGrid] row %d must have %d columns, got %d", r, Cols, len(row))
		}
		for c, state := range row {
			if !state.Valid() {
				return nil, errors.Wrapf(ErrCellState, "[NewGrid] cell (%d,%d) must be a CellState, got %d", r, c, state)
			}
			g.cells[r][c] = state
		}
	}
	return g, nil
}

// GridFromCells builds a Grid from a fixed-size cell array. The array type
// carries the dimension proof, so construction cannot fail; callers supply
// states produced by the engine.
func GridFromCells(cells [Rows][Cols]CellState) *Grid {
	return &Grid{cells: cells}
}

// Empty returns the all-DEAD grid.
func Empty() *Grid {
	return &Grid{}
}

// Full returns the grid with every cell at the maximum-intensity state.
func Full() *Grid {
	g := &Grid{}
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = Green4
		}
	}
	return g
}

// Cell returns the state at (row, col), reporting which axis was out of
// range when the position is invalid.
func (g *Grid) Cell(row, col int) (CellState, error) {
	if row < 0 || row >= Rows {
		return Dead, errors.Wrapf(ErrBounds, "[Cell] row %d out of bounds [0,%d)", row, Rows)
	}
	if col < 0 || col >= Cols {
		return Dead, errors.Wrapf(ErrBounds, "[Cell] col %d out of bounds [0,%d)", col, Cols)
	}
	return g.cells[row][col], nil
}

// Cells returns a value copy of the underlying cell array. Mutating the copy
// never affects the Grid.
func (g *Grid) Cells() [Rows][Cols]CellState {
	return g.cells
}

// ToLists exports the grid as a fresh Rows×Cols slice of integer levels
// (DEAD=0 .. GREEN_4=4), independently owned by the caller.
func (g *Grid) ToLists() [][]int {
	out := make([][]int, Rows)
	for r := range g.cells {
		out[r] = make([]int, Cols)
		for c := range g.cells[r] {
			out[r][c] = g.cells[r][c].Level()
		}
	}
	return out
}

// Population returns the number of alive cells.
func (g *Grid) Population() (count int) {
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].IsAlive() {
				count++
			}
		}
	}
	return
}

// Equal reports positional equality of all Rows×Cols cells.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil {
		return false
	}
	return g.cells == other.cells
}
