package game

import (
	"fmt"
	"time"

	"github.com/lox/blackjack-trainer/internal/strategy"
)

// MaxDecks is the largest shoe the trainer will build
const MaxDecks = 8

// Settings are the table and trainer options a session plays under
type Settings struct {
	Decks           int
	Rules           strategy.Rules
	BlackjackPayout float64 // 1.5 for 3:2, 1.2 for 6:5
	MinBet          float64
	MaxHands        int // hands a player may hold after splitting

	StartingBankroll float64
	BaseUnit         float64
	MaxUnits         int // top of the bet ramp
	CountingDisplay  bool
	CountQuiz        bool
	DealerDelay      time.Duration
}

// DefaultSettings returns a six-deck H17 DAS late-surrender game paying 3:2
func DefaultSettings() Settings {
	return Settings{
		Decks:            6,
		Rules:            strategy.DefaultRules(),
		BlackjackPayout:  1.5,
		MinBet:           10,
		MaxHands:         4,
		StartingBankroll: 5000,
		BaseUnit:         25,
		MaxUnits:         8,
		CountingDisplay:  true,
		CountQuiz:        false,
		DealerDelay:      600 * time.Millisecond,
	}
}

// Validate checks the settings are playable
func (s Settings) Validate() error {
	if s.Decks < 1 || s.Decks > MaxDecks {
		return fmt.Errorf("decks must be between 1 and %d, got %d", MaxDecks, s.Decks)
	}
	if s.BlackjackPayout <= 0 {
		return fmt.Errorf("blackjack payout must be positive, got %g", s.BlackjackPayout)
	}
	if s.MinBet <= 0 {
		return fmt.Errorf("minimum bet must be positive, got %g", s.MinBet)
	}
	if s.MaxHands < 1 {
		return fmt.Errorf("max hands must be at least 1, got %d", s.MaxHands)
	}
	if s.StartingBankroll < s.MinBet {
		return fmt.Errorf("starting bankroll %g is below the minimum bet %g", s.StartingBankroll, s.MinBet)
	}
	if s.BaseUnit < s.MinBet {
		return fmt.Errorf("base unit %g is below the minimum bet %g", s.BaseUnit, s.MinBet)
	}
	if s.MaxUnits < 1 {
		return fmt.Errorf("max units must be at least 1, got %d", s.MaxUnits)
	}
	if s.DealerDelay < 0 {
		return fmt.Errorf("dealer delay cannot be negative, got %s", s.DealerDelay)
	}
	return nil
}
