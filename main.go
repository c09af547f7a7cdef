package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghlife/ghlife/contrib"
	"github.com/ghlife/ghlife/game"
	"github.com/ghlife/ghlife/render"
	"github.com/ghlife/ghlife/server"
	"github.com/ghlife/ghlife/utils"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to YAML configuration")
		serve      = flag.Bool("serve", false, "run the HTTP server instead of the CLI")
		username   = flag.String("user", "", "GitHub username to fetch contributions for")
		frames     = flag.Int("frames", 0, "number of generations to simulate (0 = config default)")
		strategy   = flag.String("strategy", "", "boundary strategy: void or loop (empty = config default)")
		output     = flag.String("out", "", "output GIF path (default <user>-game-of-life.gif)")
	)
	flag.Parse()

	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Using default configuration (%s not found)\n", *configPath)
		config = utils.DefaultConfig()
	}

	source := contrib.NewClient(config.Fetch.BaseURL, config.FetchTimeout())

	if *serve {
		if err := runServer(config, source); err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *username == "" {
		fmt.Fprintln(os.Stderr, "a -user is required (or pass -serve to run the HTTP server)")
		flag.Usage()
		os.Exit(2)
	}
	if *frames > 0 {
		config.Sim.Frames = *frames
	}
	if *strategy != "" {
		config.Sim.Strategy = *strategy
	}
	out := *output
	if out == "" {
		out = fmt.Sprintf("%s-game-of-life.gif", *username)
	}

	if err := runCLI(config, source, *username, out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runServer serves HTTP until SIGINT/SIGTERM, then shuts down gracefully.
func runServer(config utils.Config, source contrib.Source) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(config, source).ListenAndServe(ctx)
}

// runCLI fetches the user's contribution graph, evolves it, and writes the
// animated GIF.
func runCLI(config utils.Config, source contrib.Source, username, output string) error {
	boundary, err := game.ParseBoundaryStrategy(config.Sim.Strategy)
	if err != nil {
		return err
	}
	g, err := game.NewWithStrategy(boundary)
	if err != nil {
		return err
	}

	grid, err := fetchGrid(source, username, config.FetchTimeout())
	if err != nil {
		return err
	}

	history, stats := runSimulation(g, grid, config.Sim.Frames)

	renderer, err := render.NewGifRenderer(render.Options{
		CellSize:     config.Render.CellSize,
		CellGap:      config.Render.CellGap,
		FrameDelayMS: config.Render.FrameDelayMS,
	})
	if err != nil {
		return err
	}
	if err := renderer.WriteGIF(output, history); err != nil {
		return err
	}

	printSummary(output, boundary, history, stats)
	return nil
}
