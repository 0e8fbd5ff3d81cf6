package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack-trainer/internal/game"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// Config represents the complete trainer configuration
type Config struct {
	Table   *TableConfig   `hcl:"table,block"`
	Trainer *TrainerConfig `hcl:"trainer,block"`
	Log     *LogConfig     `hcl:"log,block"`
}

// TableConfig holds the house rules. Booleans are pointers so an absent
// attribute keeps its default instead of reading as false.
type TableConfig struct {
	Decks            int     `hcl:"decks,optional"`
	DealerHitsSoft17 *bool   `hcl:"dealer_hits_soft_17,optional"`
	DoubleAfterSplit *bool   `hcl:"double_after_split,optional"`
	LateSurrender    *bool   `hcl:"late_surrender,optional"`
	BlackjackPayout  float64 `hcl:"blackjack_payout,optional"`
	MinBet           float64 `hcl:"min_bet,optional"`
	MaxHands         int     `hcl:"max_hands,optional"`
}

// TrainerConfig holds the player's bankroll and the training aids
type TrainerConfig struct {
	StartingBankroll float64 `hcl:"starting_bankroll,optional"`
	BaseUnit         float64 `hcl:"base_unit,optional"`
	MaxUnits         int     `hcl:"max_units,optional"`
	CountingDisplay  *bool   `hcl:"counting_display,optional"`
	CountQuiz        *bool   `hcl:"count_quiz,optional"`
	DealerDelayMS    *int    `hcl:"dealer_delay_ms,optional"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

const (
	defaultLogLevel = "info"
	defaultLogFile  = "blackjack-trainer.log"
)

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults; attributes left out of the file keep their defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	d := game.DefaultSettings()

	if c.Table == nil {
		c.Table = &TableConfig{}
	}
	t := c.Table
	if t.Decks == 0 {
		t.Decks = d.Decks
	}
	t.DealerHitsSoft17 = orDefault(t.DealerHitsSoft17, d.Rules.DealerHitsSoft17)
	t.DoubleAfterSplit = orDefault(t.DoubleAfterSplit, d.Rules.DoubleAfterSplit)
	t.LateSurrender = orDefault(t.LateSurrender, d.Rules.LateSurrender)
	if t.BlackjackPayout == 0 {
		t.BlackjackPayout = d.BlackjackPayout
	}
	if t.MinBet == 0 {
		t.MinBet = d.MinBet
	}
	if t.MaxHands == 0 {
		t.MaxHands = d.MaxHands
	}

	if c.Trainer == nil {
		c.Trainer = &TrainerConfig{}
	}
	tr := c.Trainer
	if tr.StartingBankroll == 0 {
		tr.StartingBankroll = d.StartingBankroll
	}
	if tr.BaseUnit == 0 {
		tr.BaseUnit = d.BaseUnit
	}
	if tr.MaxUnits == 0 {
		tr.MaxUnits = d.MaxUnits
	}
	tr.CountingDisplay = orDefault(tr.CountingDisplay, d.CountingDisplay)
	tr.CountQuiz = orDefault(tr.CountQuiz, d.CountQuiz)
	if tr.DealerDelayMS == nil {
		ms := int(d.DealerDelay / time.Millisecond)
		tr.DealerDelayMS = &ms
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = defaultLogFile
	}
}

func orDefault(v *bool, def bool) *bool {
	if v != nil {
		return v
	}
	return &def
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log: invalid level %q", c.Log.Level)
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	return nil
}

// Rules returns the strategy-relevant house rules
func (c *Config) Rules() strategy.Rules {
	return strategy.Rules{
		LateSurrender:    *c.Table.LateSurrender,
		DoubleAfterSplit: *c.Table.DoubleAfterSplit,
		DealerHitsSoft17: *c.Table.DealerHitsSoft17,
	}
}

// Settings maps the configuration onto session settings
func (c *Config) Settings() game.Settings {
	return game.Settings{
		Decks:            c.Table.Decks,
		Rules:            c.Rules(),
		BlackjackPayout:  c.Table.BlackjackPayout,
		MinBet:           c.Table.MinBet,
		MaxHands:         c.Table.MaxHands,
		StartingBankroll: c.Trainer.StartingBankroll,
		BaseUnit:         c.Trainer.BaseUnit,
		MaxUnits:         c.Trainer.MaxUnits,
		CountingDisplay:  *c.Trainer.CountingDisplay,
		CountQuiz:        *c.Trainer.CountQuiz,
		DealerDelay:      time.Duration(*c.Trainer.DealerDelayMS) * time.Millisecond,
	}
}
