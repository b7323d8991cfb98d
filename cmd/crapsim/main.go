// Package main is the entry point for the craps simulator CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crapsim/internal/config"
	"crapsim/internal/dice"
	"crapsim/internal/render"
	"crapsim/internal/sim"
	"crapsim/internal/stats"
)

const version = "0.1.0"

func main() {
	var (
		configPath = flag.String("config", "config", "directory to search for config.yaml")
		maxRolls   = flag.Int("max-rolls", 0, "override the configured roll guard")
		seed       = flag.Int64("seed", 0, "override the configured RNG seed")
		frameDelay = flag.Duration("frame-delay", 0, "pause between rendered frames")
		noClear    = flag.Bool("no-clear", false, "do not clear the terminal between frames")
		debug      = flag.Bool("debug", false, "enable per-roll debug logging")
		quiet      = flag.Bool("quiet", false, "suppress live rendering, print only the summary")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println("crapsim", version)
		return
	}

	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	opts := []sim.Option{sim.WithLogger(log.Logger)}
	if *seed != 0 {
		opts = append(opts, sim.WithRoller(dice.NewRoller(*seed)))
	}

	simulation, err := sim.New(cfg, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build simulation")
	}

	var onFrame sim.FrameFunc
	if !*quiet {
		renderer := render.New(os.Stdout, !*noClear)
		onFrame = func(f sim.Frame) error {
			if err := renderer.Frame(f); err != nil {
				return err
			}
			if *frameDelay > 0 {
				time.Sleep(*frameDelay)
			}
			return nil
		}
	}

	result, err := simulation.Run(*maxRolls, onFrame)
	if err != nil {
		log.Fatal().Err(err).Msg("Simulation failed")
	}

	summary := stats.Summarize(simulation.Players(), result)
	renderer := render.New(os.Stdout, false)
	if err := renderer.Summary(summary); err != nil {
		log.Fatal().Err(err).Msg("Failed to render summary")
	}
}
