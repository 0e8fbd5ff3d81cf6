// Package evaluator computes blackjack hand totals.
//
// Every Ace starts at 11 and is reduced to 1, one at a time, while the hand
// would otherwise bust. A hand is soft when an Ace survives that reduction
// still worth 11.
package evaluator

import (
	"strconv"

	"github.com/lox/blackjack-trainer/internal/deck"
)

// RankValue returns the provisional value of a card: face cards 10, Ace 11,
// numerals their face value.
func RankValue(c deck.Card) int {
	switch {
	case c.Rank == deck.Ace:
		return 11
	case c.Rank.IsTenValue():
		return 10
	default:
		return int(c.Rank)
	}
}

// score returns the best total and how many Aces still count as 11
func score(h deck.Hand) (total, liveAces int) {
	for _, c := range h {
		v := RankValue(c)
		if v == 11 {
			liveAces++
		}
		total += v
	}
	for total > 21 && liveAces > 0 {
		total -= 10
		liveAces--
	}
	return total, liveAces
}

// Total returns the best total not exceeding 21, or the minimal bust total
// when every Ace has already been reduced.
func Total(h deck.Hand) int {
	total, _ := score(h)
	return total
}

// IsSoft reports whether an Ace is still counted as 11 in Total.
func IsSoft(h deck.Hand) bool {
	_, live := score(h)
	return live > 0
}

// IsPair reports whether h is exactly two cards of equal value. Any two
// ten-value cards form a pair, as do two Aces.
func IsPair(h deck.Hand) bool {
	return len(h) == 2 && RankValue(h[0]) == RankValue(h[1])
}

// PairValue returns the RankValue of a pair's cards, or 0 when h is not a pair
func PairValue(h deck.Hand) int {
	if !IsPair(h) {
		return 0
	}
	return RankValue(h[0])
}

// IsBlackjack reports a two-card 21
func IsBlackjack(h deck.Hand) bool {
	return len(h) == 2 && Total(h) == 21
}

// IsBust reports a total over 21
func IsBust(h deck.Hand) bool {
	return Total(h) > 21
}

// Describe renders the total the way a dealer calls it ("soft 17", "hard 12",
// "bust 25", "blackjack").
func Describe(h deck.Hand) string {
	total, live := score(h)
	switch {
	case IsBlackjack(h):
		return "blackjack"
	case total > 21:
		return "bust " + strconv.Itoa(total)
	case live > 0:
		return "soft " + strconv.Itoa(total)
	default:
		return "hard " + strconv.Itoa(total)
	}
}
