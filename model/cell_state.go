package model

import (
	"github.com/pkg/errors"
)

// CellState is one of the five Quad-Life cell values: dead, or one of four
// green intensities matching the levels of a contribution graph.
type CellState uint8

const (
	Dead CellState = iota
	Green1
	Green2
	Green3
	Green4
)

// numStates is the size of the closed CellState set.
const numStates = 5

// ErrCellState reports a value outside the closed CellState set.
var ErrCellState = errors.New("invalid cell state")

// IsAlive reports whether the cell holds any of the four green states.
func (s CellState) IsAlive() bool {
	return s != Dead && s.Valid()
}

// Valid reports whether s is one of the five defined states.
func (s CellState) Valid() bool {
	return s < numStates
}

// Level returns the integer ordinal of the state (DEAD=0 .. GREEN_4=4).
func (s CellState) Level() int {
	return int(s)
}

func (s CellState) String() string {
	switch s {
	case Dead:
		return "DEAD"
	case Green1:
		return "GREEN_1"
	case Green2:
		return "GREEN_2"
	case Green3:
		return "GREEN_3"
	case Green4:
		return "GREEN_4"
	default:
		return "INVALID"
	}
}

// CellStateFromLevel converts an integer ordinal back into a CellState,
// rejecting anything outside [0,4].
func CellStateFromLevel(level int) (CellState, error) {
	if level < 0 || level >= numStates {
		return Dead, errors.Wrapf(ErrCellState, "[CellStateFromLevel] level %d must be in [0,%d)", level, numStates)
	}
	return CellState(level), nil
}

// AliveStates returns the four alive states in ascending ordinal order.
func AliveStates() [4]CellState {
	return [4]CellState{Green1, Green2, Green3, Green4}
}
