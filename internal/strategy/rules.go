package strategy

import (
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/evaluator"
)

// Rules are the table rules that change correct play
type Rules struct {
	LateSurrender    bool
	DoubleAfterSplit bool
	DealerHitsSoft17 bool
}

// DefaultRules matches a common six-deck shoe game: H17, DAS, late surrender
func DefaultRules() Rules {
	return Rules{
		LateSurrender:    true,
		DoubleAfterSplit: true,
		DealerHitsSoft17: true,
	}
}

// DealerHits reports whether the dealer must draw to h: below 17, or soft 17
// when the dealer hits soft 17.
func DealerHits(h deck.Hand, rules Rules) bool {
	total := evaluator.Total(h)
	if total < 17 {
		return true
	}
	return total == 17 && rules.DealerHitsSoft17 && evaluator.IsSoft(h)
}

// Upcard is the dealer's exposed card as used by strategy tables. Ten, Jack,
// Queen and King are all UpTen.
type Upcard int

const (
	UpTwo Upcard = iota + 2
	UpThree
	UpFour
	UpFive
	UpSix
	UpSeven
	UpEight
	UpNine
	UpTen
	UpAce
)

// Upcards lists every upcard class in chart column order
var Upcards = [...]Upcard{UpTwo, UpThree, UpFour, UpFive, UpSix, UpSeven, UpEight, UpNine, UpTen, UpAce}

// UpcardOf classifies a dealer card
func UpcardOf(c deck.Card) Upcard {
	return Upcard(evaluator.RankValue(c))
}

func (u Upcard) String() string {
	switch {
	case u == UpAce:
		return "A"
	case u >= UpTwo && u <= UpTen:
		return deck.Rank(u).String()
	default:
		return "?"
	}
}

// between reports lo <= u <= hi
func (u Upcard) between(lo, hi Upcard) bool {
	return u >= lo && u <= hi
}
