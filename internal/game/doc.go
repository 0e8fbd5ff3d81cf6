// Package game runs blackjack rounds for the trainer.
//
// The main type is Session, which owns the shoe, the bankroll and the round
// in progress. Every decision the player makes is graded against the
// strategy engine at the current true count before it is applied.
//
// # Basic Usage
//
//	s, err := game.NewSession(game.DefaultSettings(), randutil.New(42), logger)
//	if err := s.DealInitialHands(25); err != nil { ... }
//	if s.Phase() == game.PhaseInsurance {
//	    s.Insurance(false)
//	}
//	for s.Phase() == game.PhasePlayer {
//	    fb, err := s.PlayerAction(strategy.Stand)
//	    ...
//	}
//	for card := range s.DealerDraws() {
//	    // render card, pause
//	}
//	settlement, err := s.Settle()
//
// # Phases
//
// A round moves Betting → (Insurance) → Player → Dealer → Settle → Betting.
// Calling an operation in the wrong phase returns ErrWrongPhase. Rounds
// where the player busts or surrenders every hand, or either side has a
// blackjack on the deal, skip the dealer phase.
//
// # Events
//
// Sessions publish RoundStartEvent, CardEvent, DecisionEvent, ShuffleEvent
// and RoundEndEvent on an EventBus. EventFormatter turns them into log lines
// for the terminal trainer.
//
// # Deterministic Testing
//
// Pass a seeded *rand.Rand (see randutil.New) for a repeatable shoe, or
// arrange the next cards with Shoe().Arrange before dealing.
package game
