package game

import (
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/evaluator"
)

// PlayerHand is one of the player's hands in a round. Splitting creates more.
type PlayerHand struct {
	Cards       deck.Hand
	Bet         float64
	Doubled     bool
	Surrendered bool
	Stood       bool
	FromSplit   bool
	SplitAces   bool
}

// Total returns the hand's best total
func (h PlayerHand) Total() int {
	return evaluator.Total(h.Cards)
}

// IsNatural reports a two-card 21 that was not made by splitting
func (h PlayerHand) IsNatural() bool {
	return !h.FromSplit && evaluator.IsBlackjack(h.Cards)
}

// Done reports whether no more actions can be taken on the hand
func (h PlayerHand) Done() bool {
	return h.Stood || h.Surrendered || h.Doubled || evaluator.Total(h.Cards) >= 21
}

func (h PlayerHand) clone() PlayerHand {
	h.Cards = h.Cards.Clone()
	return h
}
