package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack-trainer/internal/deck"
)

func TestRankValue(t *testing.T) {
	tests := []struct {
		card string
		want int
	}{
		{"As", 11},
		{"2h", 2},
		{"9d", 9},
		{"10c", 10},
		{"Js", 10},
		{"Qh", 10},
		{"Kd", 10},
	}
	for _, tt := range tests {
		c, err := deck.ParseCard(tt.card)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, RankValue(c), tt.card)
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name string
		hand string
		want int
		soft bool
	}{
		{"two aces and nine", "As Ah 9d", 21, true},
		{"ace nine nine", "As 9h 9d", 19, false},
		{"bust without aces", "10s 10h 5d", 25, false},
		{"soft seventeen", "As 6h", 17, true},
		{"hard seventeen", "As 6h 10d", 17, false},
		{"pair of aces", "As Ah", 12, true},
		{"blackjack", "As Kh", 21, true},
		{"four aces", "As Ah Ad Ac", 14, true},
		{"ace bust rescue", "As 5h 8d", 14, false},
		{"every ace reduced and bust", "As Ah Kd Qc", 22, false},
		{"face cards", "Ks Qh", 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := deck.MustParseHand(tt.hand)
			assert.Equal(t, tt.want, Total(h))
			assert.Equal(t, tt.soft, IsSoft(h))
		})
	}
}

func TestTotalNeverBelowMinimalBust(t *testing.T) {
	// Every card's minimum contribution is 1 for an ace, so Total is at
	// least the all-aces-low sum.
	for _, r1 := range deck.Ranks {
		for _, r2 := range deck.Ranks {
			for _, r3 := range deck.Ranks {
				h := deck.Hand{deck.NewCard(r1, deck.Spades), deck.NewCard(r2, deck.Hearts), deck.NewCard(r3, deck.Clubs)}
				low := 0
				for _, c := range h {
					if c.IsAce() {
						low++
					} else {
						low += RankValue(c)
					}
				}
				got := Total(h)
				assert.GreaterOrEqual(t, got, low)
				if low <= 21 {
					assert.LessOrEqual(t, got, 21, "hand %s", h)
				} else {
					assert.Equal(t, low, got, "hand %s", h)
				}
			}
		}
	}
}

func TestIsPair(t *testing.T) {
	tests := []struct {
		hand string
		want bool
	}{
		{"As Ah", true},
		{"8s 8d", true},
		{"Ks Qh", true},
		{"10s Jh", true},
		{"9s 10h", false},
		{"As Kh", false},
		{"8s 8d 8h", false},
		{"8s", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPair(deck.MustParseHand(tt.hand)), tt.hand)
	}
	assert.Equal(t, 10, PairValue(deck.MustParseHand("Ks Qh")))
	assert.Equal(t, 0, PairValue(deck.MustParseHand("Ks 9h")))
}

func TestBlackjackAndBust(t *testing.T) {
	assert.True(t, IsBlackjack(deck.MustParseHand("As Kh")))
	assert.False(t, IsBlackjack(deck.MustParseHand("7s 7h 7d")))
	assert.True(t, IsBust(deck.MustParseHand("10s 10h 5d")))
	assert.False(t, IsBust(deck.MustParseHand("As Ah 9d")))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "soft 17", Describe(deck.MustParseHand("As 6h")))
	assert.Equal(t, "hard 12", Describe(deck.MustParseHand("10s 2h")))
	assert.Equal(t, "bust 25", Describe(deck.MustParseHand("10s 10h 5d")))
	assert.Equal(t, "blackjack", Describe(deck.MustParseHand("As Qh")))
}
