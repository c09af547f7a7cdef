package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gernest/wow"
	"github.com/gernest/wow/spin"

	"github.com/ghlife/ghlife/contrib"
	"github.com/ghlife/ghlife/game"
	"github.com/ghlife/ghlife/model"
	"github.com/ghlife/ghlife/utils"
)

// fetchGrid downloads the user's contribution calendar and maps it onto the
// initial grid, with a spinner while the request is in flight.
func fetchGrid(source contrib.Source, username string, timeout time.Duration) (*model.Grid, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	spinner := wow.New(os.Stdout, spin.Get(spin.Dots), fmt.Sprintf(" fetching contributions for %s", username))
	spinner.Start()
	counts, err := source.Contributions(ctx, username)
	if err != nil {
		spinner.PersistWith(spin.Spinner{Frames: []string{"✗"}}, " failed")
		return nil, err
	}
	spinner.PersistWith(spin.Spinner{Frames: []string{"✓"}}, " done")

	return contrib.GridFromCounts(counts)
}

// runSimulation evolves the grid one generation at a time so the progress
// bar and stats can tick along with it. The returned history includes the
// initial grid as frame 0.
func runSimulation(g *game.Game, grid *model.Grid, frames int) ([]*model.Grid, *utils.Stats) {
	stats := utils.NewStats()
	history := make([]*model.Grid, 0, frames+1)
	history = append(history, grid)

	bar := pb.StartNew(frames)
	current := grid
	for i := 0; i < frames; i++ {
		frameStart := time.Now()
		current = g.NextGeneration(current)
		history = append(history, current)
		stats.Update(i+1, current.Population(), time.Since(frameStart))
		bar.Increment()
	}
	bar.Finish()

	return history, stats
}

// printSummary shows the final run information
func printSummary(output string, boundary game.BoundaryStrategy, history []*model.Grid, stats *utils.Stats) {
	fmt.Printf("Wrote %s (%d frames, %s boundary)\n", output, len(history), boundary)
	fmt.Printf("Grid: %dx%d | Final living cells: %d\n",
		model.Cols, model.Rows, stats.FinalPopulation)
	fmt.Printf("Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())
}
