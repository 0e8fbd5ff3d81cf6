package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/lox/blackjack-trainer/cmd/blackjack-trainer/shared"
	"github.com/lox/blackjack-trainer/internal/config"
	"github.com/lox/blackjack-trainer/internal/game"
	"github.com/lox/blackjack-trainer/internal/randutil"
	"github.com/lox/blackjack-trainer/internal/tui"
)

// PlayCmd runs the interactive trainer
type PlayCmd struct {
	Config   string `short:"c" default:"blackjack-trainer.hcl" help:"Path to HCL configuration file"`
	Seed     *int64 `help:"Deterministic shoe seed (optional)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file (overrides config)"`
	Quiz     bool   `help:"Ask for the running count after every round"`
	NoCount  bool   `help:"Hide the running and true count"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.Log.File = c.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// the terminal belongs to the TUI, so logs go to a file
	logger, closer, err := shared.SetupFileLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	settings := cfg.Settings()
	if c.Quiz {
		settings.CountQuiz = true
	}
	if c.NoCount {
		settings.CountingDisplay = false
	}

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting trainer",
		"seed", seed,
		"decks", settings.Decks,
		"h17", settings.Rules.DealerHitsSoft17,
		"das", settings.Rules.DoubleAfterSplit,
		"surrender", settings.Rules.LateSurrender,
		"bankroll", settings.StartingBankroll)

	session, err := game.NewSession(settings, randutil.New(seed), logger, game.WithRoundIDs(uuid.NewString))
	if err != nil {
		return err
	}

	started := time.Now()
	program := tea.NewProgram(tui.NewModel(session, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("trainer UI: %w", err)
	}

	acc := session.Accuracy()
	logger.Info("Session ended",
		"rounds", session.Rounds(),
		"bankroll", session.Bankroll(),
		"decisions", acc.Decisions,
		"correct", acc.CorrectDecisions,
		"duration", time.Since(started).Round(time.Second))

	printSessionSummary(session, seed)
	return nil
}

func printSessionSummary(session *game.Session, seed int64) {
	acc := session.Accuracy()
	start := session.Settings().StartingBankroll

	fmt.Printf("\n=== SESSION SUMMARY (seed %d) ===\n", seed)
	fmt.Printf("Rounds played: %d\n", session.Rounds())
	fmt.Printf("Bankroll: $%.2f (%+.2f)\n", session.Bankroll(), session.Bankroll()-start)
	fmt.Printf("Decisions: %d/%d correct (%.1f%%)\n", acc.CorrectDecisions, acc.Decisions, acc.DecisionRate()*100)
	if acc.Deviations > 0 {
		fmt.Printf("Deviations: %d/%d correct (%.1f%%)\n", acc.CorrectDeviations, acc.Deviations, acc.DeviationRate()*100)
	}
	if acc.Insurance > 0 {
		fmt.Printf("Insurance: %d/%d correct\n", acc.CorrectInsurance, acc.Insurance)
	}
	if acc.CountGuesses > 0 {
		fmt.Printf("Count quiz: %d/%d correct (%.1f%%)\n", acc.CorrectGuesses, acc.CountGuesses, acc.CountRate()*100)
	}
}
