package game

import (
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/evaluator"
)

// Outcome is how one player hand finished
type Outcome int

const (
	OutcomeLose Outcome = iota
	OutcomePush
	OutcomeWin
	OutcomeBlackjack
	OutcomeSurrender
	OutcomeBust
)

var outcomeNames = [...]string{"lose", "push", "win", "blackjack", "surrender", "bust"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// HandResult is the settled result of one player hand
type HandResult struct {
	Cards     deck.Hand
	Bet       float64
	Outcome   Outcome
	Payout    float64 // returned to the bankroll, stake included
	Net       float64
	Doubled   bool
	FromSplit bool
}

// Settlement is the result of a whole round
type Settlement struct {
	RoundID         string
	Hands           []HandResult
	Dealer          deck.Hand
	DealerTotal     int
	DealerBlackjack bool
	InsuranceBet    float64
	InsurancePayout float64

	// Wagered is everything taken from the bankroll this round, Returned
	// everything paid back. Net = Returned - Wagered.
	Wagered  float64
	Returned float64
	Net      float64
	Bankroll float64

	StartTrueCount float64
	RunningCount   int
}

// settleHand pays one hand against the dealer's final hand
func settleHand(h PlayerHand, dealer deck.Hand, blackjackPayout float64) (Outcome, float64) {
	total := h.Total()
	dealerTotal := evaluator.Total(dealer)
	dealerBJ := evaluator.IsBlackjack(dealer)

	switch {
	case h.Surrendered:
		return OutcomeSurrender, h.Bet / 2
	case total > 21:
		return OutcomeBust, 0
	case dealerBJ && h.IsNatural():
		return OutcomePush, h.Bet
	case dealerBJ:
		return OutcomeLose, 0
	case h.IsNatural():
		return OutcomeBlackjack, h.Bet + h.Bet*blackjackPayout
	case dealerTotal > 21, total > dealerTotal:
		return OutcomeWin, 2 * h.Bet
	case total == dealerTotal:
		return OutcomePush, h.Bet
	default:
		return OutcomeLose, 0
	}
}
