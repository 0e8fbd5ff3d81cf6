package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsValid(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"no decks", func(s *Settings) { s.Decks = 0 }},
		{"too many decks", func(s *Settings) { s.Decks = MaxDecks + 1 }},
		{"zero payout", func(s *Settings) { s.BlackjackPayout = 0 }},
		{"zero min bet", func(s *Settings) { s.MinBet = 0 }},
		{"no hands", func(s *Settings) { s.MaxHands = 0 }},
		{"bankroll below min bet", func(s *Settings) { s.StartingBankroll = 5 }},
		{"unit below min bet", func(s *Settings) { s.BaseUnit = 5 }},
		{"no units", func(s *Settings) { s.MaxUnits = 0 }},
		{"negative delay", func(s *Settings) { s.DealerDelay = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "betting", PhaseBetting.String())
	assert.Equal(t, "settle", PhaseSettle.String())
	assert.Equal(t, "unknown", Phase(99).String())
	assert.False(t, PhaseDealer.HoleCardHidden())
	assert.True(t, PhaseInsurance.HoleCardHidden())
}
