package model

import (
	"errors"
	"testing"
)

func TestCellStateLevels(t *testing.T) {
	levels := map[CellState]int{Dead: 0, Green1: 1, Green2: 2, Green3: 3, Green4: 4}
	for state, want := range levels {
		if state.Level() != want {
			t.Fatalf("expected %s level %d, got %d", state, want, state.Level())
		}
	}
}

func TestCellStateIsAlive(t *testing.T) {
	if Dead.IsAlive() {
		t.Fatal("DEAD must not be alive")
	}
	for _, state := range AliveStates() {
		if !state.IsAlive() {
			t.Fatalf("%s must be alive", state)
		}
	}
}

func TestCellStateValid(t *testing.T) {
	for _, state := range []CellState{Dead, Green1, Green2, Green3, Green4} {
		if !state.Valid() {
			t.Fatalf("%s must be valid", state)
		}
	}
	if CellState(5).Valid() {
		t.Fatal("CellState(5) must be invalid")
	}
}

func TestCellStateString(t *testing.T) {
	cases := map[CellState]string{
		Dead:         "DEAD",
		Green1:       "GREEN_1",
		Green4:       "GREEN_4",
		CellState(9): "INVALID",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestCellStateFromLevel(t *testing.T) {
	state, err := CellStateFromLevel(0)
	if err != nil || state != Dead {
		t.Fatalf("expected DEAD, got %v (%v)", state, err)
	}
	state, err = CellStateFromLevel(4)
	if err != nil || state != Green4 {
		t.Fatalf("expected GREEN_4, got %v (%v)", state, err)
	}

	if _, err = CellStateFromLevel(-1); !errors.Is(err, ErrCellState) {
		t.Fatalf("expected ErrCellState for -1, got %v", err)
	}
	if _, err = CellStateFromLevel(5); !errors.Is(err, ErrCellState) {
		t.Fatalf("expected ErrCellState for 5, got %v", err)
	}
}
