// Package rules implements the Quad-Life rule set: the standard Conway
// survival/birth thresholds plus the color-inheritance rules that decide
// which of the four green states a newborn cell takes.
package rules

import (
	"github.com/pkg/errors"

	"github.com/ghlife/ghlife/model"
)

// ErrNoAliveNeighbors reports a birth-color request on a cell with no alive
// neighbors. The rule is undefined there; hitting this is a caller bug, not
// a data problem.
var ErrNoAliveNeighbors = errors.New("no alive neighbors")

// Coord is a neighbor position already resolved by the caller's boundary
// strategy, so it is always inside the grid.
type Coord struct {
	Row, Col int
}

// colorIntensity holds the packed RGB values of the classic Quad-Life
// palette. Only used as the deterministic tie-break key: when two colors tie
// on neighbor count, the larger value wins.
var colorIntensity = map[model.CellState]uint32{
	model.Green1: 0xC6E48B,
	model.Green2: 0x7EE787,
	model.Green3: 0x26A641,
	model.Green4: 0x006D32,
}

// ShouldSurvive reports whether an alive cell stays alive: 2 or 3 alive
// neighbors.
func ShouldSurvive(aliveNeighbors int) bool {
	return aliveNeighbors == 2 || aliveNeighbors == 3
}

// ShouldBirth reports whether a dead cell comes alive: exactly 3 alive
// neighbors.
func ShouldBirth(aliveNeighbors int) bool {
	return aliveNeighbors == 3
}

// CountAlive counts alive cells across the pre-resolved coordinates.
func CountAlive(grid *model.Grid, coords []Coord) int {
	cells := grid.Cells()
	count := 0
	for _, nc := range coords {
		if cells[nc.Row][nc.Col].IsAlive() {
			count++
		}
	}
	return count
}

// ColorCounts tallies the pre-resolved coordinates by alive color. All four
// colors are always present as keys; the values sum to CountAlive.
func ColorCounts(grid *model.Grid, coords []Coord) map[model.CellState]int {
	cells := grid.Cells()
	counts := map[model.CellState]int{
		model.Green1: 0,
		model.Green2: 0,
		model.Green3: 0,
		model.Green4: 0,
	}
	for _, nc := range coords {
		if state := cells[nc.Row][nc.Col]; state.IsAlive() {
			counts[state]++
		}
	}
	return counts
}

// BirthColor picks the color of a newborn cell from its neighbor tally:
//   - a strict majority color wins outright
//   - three neighbors of three distinct colors birth the absent fourth color
//   - otherwise ties resolve to the candidate with the larger palette
//     intensity value
func BirthColor(grid *model.Grid, coords []Coord) (model.CellState, error) {
	counts := ColorCounts(grid, coords)

	alive := 0
	for _, n := range counts {
		alive += n
	}
	if alive == 0 {
		return model.Dead, errors.Wrap(ErrNoAliveNeighbors, "[BirthColor] birth color undefined")
	}

	distinct := 0
	for _, n := range counts {
		if n > 0 {
			distinct++
		}
	}

	// Deadlock: three neighbors of three different colors can never form a
	// majority, so the newborn takes the one color not present.
	if alive == 3 && distinct == 3 {
		for _, state := range model.AliveStates() {
			if counts[state] == 0 {
				return state, nil
			}
		}
	}

	best := model.Dead
	bestCount := 0
	for _, state := range model.AliveStates() {
		n := counts[state]
		if n == 0 {
			continue
		}
		switch {
		case n > bestCount:
			best, bestCount = state, n
		case n == bestCount && colorIntensity[state] > colorIntensity[best]:
			best = state
		}
	}
	return best, nil
}

// CountAliveNeighbors counts the alive cells among the in-bounds compass
// neighbors of (row, col). Positions outside the grid contribute nothing.
func CountAliveNeighbors(grid *model.Grid, row, col int) int {
	return CountAlive(grid, inBoundsNeighbors(row, col))
}

// NeighborColorCounts tallies the in-bounds compass neighbors of (row, col)
// by alive color.
func NeighborColorCounts(grid *model.Grid, row, col int) map[model.CellState]int {
	return ColorCounts(grid, inBoundsNeighbors(row, col))
}

// DetermineBirthColor resolves the newborn color for (row, col) from its
// in-bounds compass neighbors.
func DetermineBirthColor(grid *model.Grid, row, col int) (model.CellState, error) {
	return BirthColor(grid, inBoundsNeighbors(row, col))
}

func inBoundsNeighbors(row, col int) []Coord {
	coords := make([]Coord, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if r < 0 || r >= model.Rows || c < 0 || c >= model.Cols {
				continue
			}
			coords = append(coords, Coord{Row: r, Col: c})
		}
	}
	return coords
}
