// Package strategy recommends blackjack plays.
//
// A recommendation checks count-based deviations first (Fab 4 surrenders,
// the Illustrious 18 ten-split, stand and double indices) and falls back to
// basic strategy when none applies. Everything here is a pure function of
// its arguments.
package strategy

import (
	"errors"
	"fmt"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/evaluator"
)

var (
	// ErrPrecondition marks engine misuse by the caller
	ErrPrecondition = errors.New("strategy precondition violated")

	// ErrShortHand is returned for hands with fewer than two cards
	ErrShortHand = fmt.Errorf("%w: hand needs at least two cards", ErrPrecondition)
)

// Decision is a recommendation and what produced it
type Decision struct {
	Action Action

	// Deviation is set when a count-based deviation fired
	Deviation *Deviation

	// Reason is a short human explanation for trainer feedback
	Reason string
}

// IsDeviation reports whether the decision came from a deviation table
func (d Decision) IsDeviation() bool {
	return d.Deviation != nil
}

// Available returns the actions the hand itself permits under rules: double
// and surrender need exactly two cards, split needs a pair.
func Available(hand deck.Hand, rules Rules) ActionSet {
	set := NewActionSet(Hit, Stand)
	if len(hand) == 2 {
		set = set.With(Double)
		if rules.LateSurrender {
			set = set.With(Surrender)
		}
	}
	if evaluator.IsPair(hand) {
		set = set.With(Split)
	}
	return set
}

// Recommend returns the correct action for hand against upcard at trueCount.
func Recommend(hand deck.Hand, upcard deck.Card, trueCount float64, rules Rules) (Action, error) {
	d, err := Decide(hand, upcard, trueCount, rules)
	return d.Action, err
}

// RecommendWithin is Recommend limited to allowed, for callers that cannot
// offer every action (split hand limit reached, no double after split).
func RecommendWithin(hand deck.Hand, upcard deck.Card, trueCount float64, rules Rules, allowed ActionSet) (Action, error) {
	d, err := DecideWithin(hand, upcard, trueCount, rules, allowed)
	return d.Action, err
}

// Decide is Recommend with an explanation
func Decide(hand deck.Hand, upcard deck.Card, trueCount float64, rules Rules) (Decision, error) {
	return DecideWithin(hand, upcard, trueCount, rules, AllActions)
}

// DecideWithin evaluates, first match wins:
//
//  1. Fab 4 surrender
//  2. ten-ten split index
//  3. stand indices for hard 12-16, including the hit below a
//     negative index where basic strategy stands
//  4. double indices for hard 8-11
//  5. basic strategy
//
// Pairs that basic strategy splits are played as pairs, never as hard totals.
func DecideWithin(hand deck.Hand, upcard deck.Card, trueCount float64, rules Rules, allowed ActionSet) (Decision, error) {
	if len(hand) < 2 {
		return Decision{}, fmt.Errorf("%w (got %d)", ErrShortHand, len(hand))
	}

	allowed = allowed.Intersect(Available(hand, rules))
	up := UpcardOf(upcard)
	total := evaluator.Total(hand)
	soft := evaluator.IsSoft(hand)
	pairValue := evaluator.PairValue(hand)
	splitByBasic := allowed.Has(Split) && basicSplits(pairValue, up, rules)

	deviation := func(c Category, shape Shape) (Decision, bool) {
		d, ok := fires(Key{c, shape, up}, trueCount)
		if !ok {
			return Decision{}, false
		}
		action, _ := c.Action()
		return Decision{
			Action:    action,
			Deviation: &d,
			Reason:    fmt.Sprintf("%s (TC %+.1f)", d, trueCount),
		}, true
	}

	if allowed.Has(Surrender) && !soft && !splitByBasic {
		if d, ok := deviation(CategorySurrender, Hard(total)); ok {
			return d, nil
		}
	}

	if allowed.Has(Split) {
		if d, ok := deviation(CategorySplit, Pair(pairValue)); ok {
			return d, nil
		}
		if splitByBasic {
			return basic(Split, hand, up), nil
		}
	}

	if !soft {
		if d, ok := deviation(CategoryStand, Hard(total)); ok {
			return d, nil
		}
		if d, ok := belowStandIndex(total, up, trueCount); ok {
			return d, nil
		}
		if allowed.Has(Double) {
			if d, ok := deviation(CategoryDouble, Hard(total)); ok {
				return d, nil
			}
		}
	}

	canDouble := allowed.Has(Double)
	if soft {
		return basic(basicSoft(total, up, canDouble), hand, up), nil
	}
	return basic(basicHard(total, up, canDouble), hand, up), nil
}

// belowStandIndex handles the negative-side stand indices (13 vs 2, 12 vs
// 4-6): basic strategy already stands there, so a count below the index is
// what turns the play into a hit.
func belowStandIndex(total int, up Upcard, trueCount float64) (Decision, bool) {
	d, ok := Lookup(Key{CategoryStand, Hard(total), up})
	if !ok || d.Applies(trueCount) || basicHard(total, up, false) != Stand {
		return Decision{}, false
	}
	return Decision{
		Action:    Hit,
		Deviation: &d,
		Reason:    fmt.Sprintf("%s; below the index, hit (TC %+.1f)", d, trueCount),
	}, true
}

func basic(a Action, hand deck.Hand, up Upcard) Decision {
	shape := evaluator.Describe(hand)
	if evaluator.IsPair(hand) && a == Split {
		shape = "pair of " + hand[0].Rank.String() + "s"
	}
	return Decision{
		Action: a,
		Reason: fmt.Sprintf("basic strategy: %s vs %s, %s", shape, up, a),
	}
}
