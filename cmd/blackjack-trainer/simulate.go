package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/lox/blackjack-trainer/cmd/blackjack-trainer/shared"
	"github.com/lox/blackjack-trainer/internal/config"
	"github.com/lox/blackjack-trainer/internal/fileutil"
	"github.com/lox/blackjack-trainer/internal/randutil"
	"github.com/lox/blackjack-trainer/internal/simulator"
)

// SimulateCmd plays the engine against itself over many shoes
type SimulateCmd struct {
	Config  string `short:"c" default:"blackjack-trainer.hcl" help:"Path to HCL configuration file (table rules)"`
	Rounds  int    `default:"100000" help:"Number of rounds to simulate"`
	Workers int    `default:"0" help:"Parallel workers (0 for one per CPU)"`
	Seed    *int64 `help:"Deterministic seed (optional)"`
	Spread  bool   `help:"Bet the true count ramp instead of flat base units"`
	Format  string `enum:"text,yaml" default:"text" help:"Report format (text, yaml)"`
	Out     string `short:"o" help:"Write the report to this file instead of stdout"`
	Debug   bool   `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	level := "info"
	if c.Debug {
		level = "debug"
	}
	logger := shared.SetupLogger(level)

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seed := randutil.Seed(c.Seed)
	settings := cfg.Settings()

	logger.Info("Starting simulation",
		"rounds", c.Rounds,
		"workers", workers,
		"seed", seed,
		"decks", settings.Decks,
		"spread", c.Spread)

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	started := time.Now()
	stats, err := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Workers:  workers,
		Seed:     seed,
		Settings: settings,
		Spread:   c.Spread,
		Logger:   logger,
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("Simulation finished", "duration", time.Since(started).Round(time.Millisecond))

	report := simulator.NewReport(stats, seed)
	write := func(w io.Writer) error {
		if c.Format == "yaml" {
			return report.WriteYAML(w)
		}
		report.WriteText(w)
		return nil
	}

	if c.Out == "" {
		return write(os.Stdout)
	}
	if err := fileutil.WriteAtomic(c.Out, 0o644, write); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("Report written", "file", c.Out, "format", c.Format)
	return nil
}
