// Package game orchestrates Quad-Life generations over an immutable grid
// under a fixed boundary strategy.
package game

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ghlife/ghlife/model"
	"github.com/ghlife/ghlife/rules"
)

var (
	// ErrStrategy reports a boundary strategy outside the closed set.
	ErrStrategy = errors.New("invalid boundary strategy")
	// ErrGenerations reports a negative generation count.
	ErrGenerations = errors.New("generations must be >= 0")
)

// BoundaryStrategy selects how neighbor lookups behave at the grid edges.
type BoundaryStrategy int

const (
	// Void treats positions outside the grid as nonexistent: edge cells see
	// fewer neighbors.
	Void BoundaryStrategy = iota
	// Loop wraps row and column indices modulo the grid dimensions, giving
	// the board a torus topology.
	Loop
)

func (s BoundaryStrategy) valid() bool {
	return s == Void || s == Loop
}

func (s BoundaryStrategy) String() string {
	switch s {
	case Void:
		return "void"
	case Loop:
		return "loop"
	default:
		return fmt.Sprintf("BoundaryStrategy(%d)", int(s))
	}
}

// ParseBoundaryStrategy converts the external configuration value into a
// strategy, rejecting anything but "void" and "loop".
func ParseBoundaryStrategy(value string) (BoundaryStrategy, error) {
	switch value {
	case "void":
		return Void, nil
	case "loop":
		return Loop, nil
	default:
		return Void, errors.Wrapf(ErrStrategy, "[ParseBoundaryStrategy] %q must be \"void\" or \"loop\"", value)
	}
}

// Game evolves grids under one boundary strategy. It holds no other state:
// every operation is a pure function of its input grid, so a single Game is
// safe for concurrent use.
type Game struct {
	strategy BoundaryStrategy
}

// New returns a Game with the default Void strategy.
func New() *Game {
	return &Game{strategy: Void}
}

// NewWithStrategy returns a Game for the given strategy, rejecting values
// outside the closed set.
func NewWithStrategy(strategy BoundaryStrategy) (*Game, error) {
	if !strategy.valid() {
		return nil, errors.Wrapf(ErrStrategy, "[NewWithStrategy] got %d", int(strategy))
	}
	return &Game{strategy: strategy}, nil
}

// Strategy returns the boundary strategy the Game was built with.
func (g *Game) Strategy() BoundaryStrategy {
	return g.strategy
}

// neighborCoords resolves the 8 compass offsets of (row, col) under the
// active strategy: out-of-range positions are dropped for Void and wrapped
// for Loop.
func (g *Game) neighborCoords(row, col int) []rules.Coord {
	coords := make([]rules.Coord, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			switch g.strategy {
			case Loop:
				r = (r + model.Rows) % model.Rows
				c = (c + model.Cols) % model.Cols
			default:
				if r < 0 || r >= model.Rows || c < 0 || c >= model.Cols {
					continue
				}
			}
			coords = append(coords, rules.Coord{Row: r, Col: c})
		}
	}
	return coords
}

// CountNeighbors counts the alive neighbors of (row, col) under the active
// boundary strategy.
func (g *Game) CountNeighbors(grid *model.Grid, row, col int) int {
	return rules.CountAlive(grid, g.neighborCoords(row, col))
}

// NextGeneration computes one synchronous generation: every cell's fate is
// decided from the same input grid, then the results become a new Grid.
func (g *Game) NextGeneration(grid *model.Grid) *model.Grid {
	var next [model.Rows][model.Cols]model.CellState
	cells := grid.Cells()

	for r := 0; r < model.Rows; r++ {
		for c := 0; c < model.Cols; c++ {
			coords := g.neighborCoords(r, c)
			alive := rules.CountAlive(grid, coords)

			if cells[r][c].IsAlive() {
				if rules.ShouldSurvive(alive) {
					next[r][c] = cells[r][c]
				}
				continue
			}
			if rules.ShouldBirth(alive) {
				color, err := rules.BirthColor(grid, coords)
				if err != nil {
					// Unreachable: birth requires three alive neighbors.
					panic(err)
				}
				next[r][c] = color
			}
		}
	}
	return model.GridFromCells(next)
}

// Evolve returns the full generation sequence: element 0 is the input grid
// itself and element i is NextGeneration applied i times, for a total
// length of generations+1.
func (g *Game) Evolve(grid *model.Grid, generations int) ([]*model.Grid, error) {
	if generations < 0 {
		return nil, errors.Wrapf(ErrGenerations, "[Evolve] got %d", generations)
	}
	history := make([]*model.Grid, 0, generations+1)
	history = append(history, grid)
	current := grid
	for i := 0; i < generations; i++ {
		current = g.NextGeneration(current)
		history = append(history, current)
	}
	return history, nil
}

// Simulate returns only the final grid after the given number of
// generations, without retaining the intermediate ones.
func (g *Game) Simulate(grid *model.Grid, generations int) (*model.Grid, error) {
	if generations < 0 {
		return nil, errors.Wrapf(ErrGenerations, "[Simulate] got %d", generations)
	}
	current := grid
	for i := 0; i < generations; i++ {
		current = g.NextGeneration(current)
	}
	return current, nil
}
