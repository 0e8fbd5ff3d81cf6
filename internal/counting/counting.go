// Package counting implements the Hi-Lo card counting system.
//
// Counts are always derived from the cards seen since the last shuffle and
// the number of undealt cards; nothing here holds state.
package counting

import (
	"math"

	"github.com/lox/blackjack-trainer/internal/deck"
)

// MinDecksRemaining floors the true count divisor so a nearly empty shoe
// cannot blow the count up.
const MinDecksRemaining = 0.5

// HiLoTag returns +1 for 2-6, -1 for tens and Aces, 0 for 7-9.
func HiLoTag(c deck.Card) int {
	switch {
	case c.Rank >= deck.Two && c.Rank <= deck.Six:
		return 1
	case c.Rank == deck.Ace || c.Rank.IsTenValue():
		return -1
	default:
		return 0
	}
}

// RunningCount sums the Hi-Lo tags of seen
func RunningCount(seen []deck.Card) int {
	rc := 0
	for _, c := range seen {
		rc += HiLoTag(c)
	}
	return rc
}

// DecksRemaining converts undealt cards to decks, never less than MinDecksRemaining
func DecksRemaining(shoeSize int) float64 {
	return math.Max(MinDecksRemaining, float64(shoeSize)/deck.CardsPerDeck)
}

// TrueCount divides the running count by decks remaining and rounds to one
// decimal place, halves away from zero.
func TrueCount(runningCount, shoeSize int) float64 {
	return math.Round(float64(runningCount)/DecksRemaining(shoeSize)*10) / 10
}

// ShoeTrueCount is TrueCount for the current state of a shoe
func ShoeTrueCount(s *deck.Shoe) float64 {
	return TrueCount(RunningCount(s.Seen()), s.Remaining())
}

// SuggestedUnits is the bet ramp shown next to the count: one unit until the
// true count reaches +2, then one unit per whole true count, capped at maxUnits.
func SuggestedUnits(trueCount float64, maxUnits int) int {
	if maxUnits < 1 {
		maxUnits = 1
	}
	if trueCount < 2 {
		return 1
	}
	return min(int(math.Floor(trueCount)), maxUnits)
}
