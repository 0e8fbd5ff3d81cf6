package game

import (
	"fmt"
	"io"
	"iter"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/blackjack-trainer/internal/counting"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/evaluator"
	"github.com/lox/blackjack-trainer/internal/strategy"
	"github.com/sanity-io/litter"
)

// Option configures a Session during creation
type Option func(*Session)

// WithEventBus publishes session events on bus instead of a private one
func WithEventBus(bus EventBus) Option {
	return func(s *Session) {
		s.bus = bus
	}
}

// WithRoundIDs replaces the uuid round ID generator
func WithRoundIDs(next func() string) Option {
	return func(s *Session) {
		s.newRoundID = next
	}
}

// Session is one player at one table. It owns the shoe, the bankroll and the
// round in progress, and calls the strategy and counting engines to grade
// the player. A Session is not safe for concurrent use.
type Session struct {
	settings Settings
	pending  *Settings

	rng        *rand.Rand
	shoe       *deck.Shoe
	logger     *log.Logger
	bus        EventBus
	newRoundID func() string

	phase          Phase
	roundID        string
	bankroll       float64
	hands          []PlayerHand
	active         int
	dealer         deck.Hand
	insuranceBet   float64
	wagered        float64
	startTrueCount float64

	rounds      int
	quizPending bool
	accuracy    Accuracy
	last        *Settlement
}

// NewSession validates settings, builds a fresh shoe from rng and seats the
// player with the starting bankroll. A nil logger discards output.
func NewSession(settings Settings, rng *rand.Rand, logger *log.Logger, opts ...Option) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Session{
		settings:   settings,
		rng:        rng,
		logger:     logger.WithPrefix("session"),
		bus:        NewEventBus(),
		newRoundID: uuid.NewString,
		bankroll:   settings.StartingBankroll,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.newShoe(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) newShoe() error {
	shoe, err := deck.NewShoe(s.settings.Decks, s.rng)
	if err != nil {
		return err
	}
	shoe.OnShuffle(s.onShuffle)
	s.shoe = shoe
	s.logger.Info("New shoe", "decks", shoe.Decks(), "cards", shoe.Remaining())
	return nil
}

func (s *Session) onShuffle() {
	s.logger.Info("Shoe reshuffled, count reset", "decks", s.shoe.Decks(), "shuffles", s.shoe.Shuffles())
	s.bus.Publish(NewShuffleEvent(s.shoe.Decks(), s.shoe.Shuffles()))
}

// Events returns the bus the session publishes on
func (s *Session) Events() EventBus { return s.bus }

// Settings returns the settings in effect for the current round
func (s *Session) Settings() Settings { return s.settings }

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.phase }

// RoundID returns the ID of the current or last round
func (s *Session) RoundID() string { return s.roundID }

// Rounds returns how many rounds have settled
func (s *Session) Rounds() int { return s.rounds }

// Bankroll returns the player's bankroll, excluding money on the table
func (s *Session) Bankroll() float64 { return s.bankroll }

// Accuracy returns the decision and count quiz tallies
func (s *Session) Accuracy() Accuracy { return s.accuracy }

// Shoe exposes the shoe for drills and tests. Drawing from it directly
// bypasses the session's events.
func (s *Session) Shoe() *deck.Shoe { return s.shoe }

// LastSettlement returns the most recent settlement, if any
func (s *Session) LastSettlement() (Settlement, bool) {
	if s.last == nil {
		return Settlement{}, false
	}
	return *s.last, true
}

// RunningCount returns the Hi-Lo running count of every card seen since the
// last shuffle, the dealer's hole card included once dealt.
func (s *Session) RunningCount() int {
	return counting.RunningCount(s.shoe.Seen())
}

// TrueCount returns the running count per deck remaining
func (s *Session) TrueCount() float64 {
	return counting.TrueCount(s.RunningCount(), s.shoe.Remaining())
}

// DecksRemaining returns the undealt decks, floored at half a deck
func (s *Session) DecksRemaining() float64 {
	return counting.DecksRemaining(s.shoe.Remaining())
}

// SuggestedBet returns the bet ramp at the current true count, limited to
// what the bankroll can cover.
func (s *Session) SuggestedBet() float64 {
	units := counting.SuggestedUnits(s.TrueCount(), s.settings.MaxUnits)
	bet := float64(units) * s.settings.BaseUnit
	return max(min(bet, s.bankroll), s.settings.MinBet)
}

// Hands returns a copy of the player's hands
func (s *Session) Hands() []PlayerHand {
	out := make([]PlayerHand, len(s.hands))
	for i, h := range s.hands {
		out[i] = h.clone()
	}
	return out
}

// ActiveHand returns the index of the hand waiting for a decision
func (s *Session) ActiveHand() int { return s.active }

// Dealer returns a copy of the dealer's cards, hole card included
func (s *Session) Dealer() deck.Hand { return s.dealer.Clone() }

// DealerUpcard returns the dealer's exposed card
func (s *Session) DealerUpcard() (deck.Card, bool) {
	if len(s.dealer) == 0 {
		return deck.Card{}, false
	}
	return s.dealer[0], true
}

// QuizPending reports whether a count quiz answer is expected
func (s *Session) QuizPending() bool { return s.quizPending }

// ApplySettings validates next and applies it. Between rounds it takes
// effect immediately, otherwise at the next deal. A change of deck count
// builds a new shoe, which resets the count.
func (s *Session) ApplySettings(next Settings) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.phase != PhaseBetting {
		s.pending = &next
		s.logger.Debug("Settings deferred to next round")
		return nil
	}
	return s.applySettings(next)
}

func (s *Session) applySettings(next Settings) error {
	s.pending = nil
	rebuild := next.Decks != s.settings.Decks
	s.settings = next
	if !s.settings.CountQuiz {
		s.quizPending = false
	}
	if !rebuild {
		return nil
	}
	if err := s.newShoe(); err != nil {
		return err
	}
	s.bus.Publish(NewShuffleEvent(s.shoe.Decks(), s.shoe.Shuffles()))
	return nil
}

// DealInitialHands takes the bet and deals player, dealer, player, dealer.
// Against an Ace the round waits in PhaseInsurance; otherwise the dealer
// peeks and a blackjack on either side goes straight to PhaseSettle.
func (s *Session) DealInitialHands(bet float64) error {
	if s.phase != PhaseBetting {
		return fmt.Errorf("%w: cannot deal during %s", ErrWrongPhase, s.phase)
	}
	if s.pending != nil {
		if err := s.applySettings(*s.pending); err != nil {
			return err
		}
	}

	switch {
	case bet <= 0:
		return fmt.Errorf("%w: bet must be positive, got %g", ErrInvalidBet, bet)
	case bet < s.settings.MinBet:
		return fmt.Errorf("%w: bet %g is below the table minimum %g", ErrInvalidBet, bet, s.settings.MinBet)
	case bet > s.bankroll:
		return fmt.Errorf("%w: bet %g exceeds bankroll %g", ErrInvalidBet, bet, s.bankroll)
	}

	s.roundID = s.newRoundID()
	s.bankroll -= bet
	s.wagered = bet
	s.insuranceBet = 0
	s.quizPending = false
	s.hands = []PlayerHand{{Bet: bet}}
	s.active = 0
	s.dealer = nil
	s.startTrueCount = s.TrueCount()

	s.bus.Publish(NewRoundStartEvent(s.roundID, bet, s.bankroll, s.startTrueCount))

	s.dealPlayer(0)
	s.dealDealer(false)
	s.dealPlayer(0)
	s.dealDealer(true)

	s.logger.Info("Round started",
		"round", s.roundID,
		"bet", bet,
		"player", s.hands[0].Cards,
		"upcard", s.dealer[0],
		"true_count", s.startTrueCount)

	if s.dealer[0].IsAce() {
		s.phase = PhaseInsurance
		return nil
	}
	s.peek()
	return nil
}

func (s *Session) dealPlayer(seat int) deck.Card {
	card := s.shoe.Deal(&s.hands[seat].Cards)
	s.bus.Publish(NewCardEvent(s.roundID, card, seat, false))
	return card
}

func (s *Session) dealDealer(faceDown bool) deck.Card {
	card := s.shoe.Deal(&s.dealer)
	s.bus.Publish(NewCardEvent(s.roundID, card, DealerSeat, faceDown))
	return card
}

// peek ends the round early when either side holds a blackjack
func (s *Session) peek() {
	if evaluator.IsBlackjack(s.dealer) || s.hands[0].IsNatural() {
		s.logger.Debug("Blackjack on the deal",
			"dealer", evaluator.IsBlackjack(s.dealer),
			"player", s.hands[0].IsNatural())
		s.phase = PhaseSettle
		return
	}
	s.phase = PhasePlayer
}

// Insurance answers the insurance offer against a dealer Ace. Taking it
// costs half the bet and pays 2:1 if the dealer has blackjack.
func (s *Session) Insurance(take bool) (InsuranceFeedback, error) {
	if s.phase != PhaseInsurance {
		return InsuranceFeedback{}, fmt.Errorf("%w: no insurance offered during %s", ErrWrongPhase, s.phase)
	}

	cost := s.hands[0].Bet / 2
	if take && cost > s.bankroll {
		return InsuranceFeedback{}, fmt.Errorf("%w: insurance %g exceeds bankroll %g", ErrInvalidBet, cost, s.bankroll)
	}

	tc := s.TrueCount()
	should := strategy.TakeInsurance(tc)
	fb := InsuranceFeedback{
		Taken:        take,
		ShouldTake:   should,
		Correct:      take == should,
		RunningCount: s.RunningCount(),
		TrueCount:    tc,
	}
	s.accuracy.recordInsurance(fb)

	if take {
		s.bankroll -= cost
		s.wagered += cost
		s.insuranceBet = cost
	}
	s.logger.Debug("Insurance answered", "taken", take, "correct", fb.Correct, "true_count", tc)

	s.peek()
	return fb, nil
}

// Allowed returns the actions the active hand can legally take: double and
// split need the bankroll to cover another bet, double after split needs
// DAS, split stops at the hand limit and surrender is only offered on the
// original two cards.
func (s *Session) Allowed() strategy.ActionSet {
	if s.phase != PhasePlayer {
		return 0
	}
	h := s.hands[s.active]
	set := strategy.Available(h.Cards, s.settings.Rules)
	if h.FromSplit {
		set = set.Without(strategy.Surrender)
		if !s.settings.Rules.DoubleAfterSplit {
			set = set.Without(strategy.Double)
		}
	}
	if h.Bet > s.bankroll {
		set = set.Without(strategy.Double).Without(strategy.Split)
	}
	if len(s.hands) >= s.settings.MaxHands {
		set = set.Without(strategy.Split)
	}
	return set
}

// Hint returns the engine's recommendation for the active hand without
// grading or applying anything.
func (s *Session) Hint() (strategy.Decision, error) {
	if s.phase != PhasePlayer {
		return strategy.Decision{}, fmt.Errorf("%w: no hand to play during %s", ErrWrongPhase, s.phase)
	}
	return strategy.DecideWithin(s.hands[s.active].Cards, s.dealer[0], s.TrueCount(), s.settings.Rules, s.Allowed())
}

// PlayerAction grades action against the engine at the current true count,
// then applies it to the active hand.
func (s *Session) PlayerAction(action strategy.Action) (Feedback, error) {
	if s.phase != PhasePlayer {
		return Feedback{}, fmt.Errorf("%w: cannot %s during %s", ErrWrongPhase, action, s.phase)
	}
	allowed := s.Allowed()
	hand := s.hands[s.active]
	if !allowed.Has(action) {
		return Feedback{}, fmt.Errorf("%w: cannot %s on %s (allowed %s)",
			ErrIllegalAction, action, evaluator.Describe(hand.Cards), allowed)
	}

	rc, tc := s.RunningCount(), s.TrueCount()
	decision, err := strategy.DecideWithin(hand.Cards, s.dealer[0], tc, s.settings.Rules, allowed)
	if err != nil {
		return Feedback{}, err
	}
	fb := Feedback{
		Chosen:       action,
		Recommended:  decision.Action,
		Correct:      action == decision.Action,
		Decision:     decision,
		RunningCount: rc,
		TrueCount:    tc,
	}
	s.accuracy.recordDecision(fb)
	s.bus.Publish(NewDecisionEvent(s.roundID, s.active, fb))
	s.logger.Debug("Decision",
		"hand", hand.Cards,
		"upcard", s.dealer[0],
		"chosen", action,
		"correct", decision.Action,
		"true_count", tc)

	s.apply(action)
	s.advance()
	return fb, nil
}

func (s *Session) apply(action strategy.Action) {
	i := s.active
	switch action {
	case strategy.Hit:
		s.dealPlayer(i)
	case strategy.Stand:
		s.hands[i].Stood = true
	case strategy.Double:
		s.bankroll -= s.hands[i].Bet
		s.wagered += s.hands[i].Bet
		s.hands[i].Bet *= 2
		s.hands[i].Doubled = true
		s.dealPlayer(i)
	case strategy.Split:
		h := s.hands[i]
		s.bankroll -= h.Bet
		s.wagered += h.Bet
		aces := h.Cards[0].IsAce()
		left := PlayerHand{Cards: deck.Hand{h.Cards[0]}, Bet: h.Bet, FromSplit: true, SplitAces: aces}
		right := PlayerHand{Cards: deck.Hand{h.Cards[1]}, Bet: h.Bet, FromSplit: true, SplitAces: aces}
		hands := make([]PlayerHand, 0, len(s.hands)+1)
		hands = append(hands, s.hands[:i]...)
		hands = append(hands, left, right)
		hands = append(hands, s.hands[i+1:]...)
		s.hands = hands
	case strategy.Surrender:
		s.hands[i].Surrendered = true
	}
}

// advance moves to the next hand needing a decision, giving split hands
// their second card on the way. Split Aces get one card each.
func (s *Session) advance() {
	for s.active < len(s.hands) {
		if len(s.hands[s.active].Cards) == 1 {
			s.dealPlayer(s.active)
			if s.hands[s.active].SplitAces {
				s.hands[s.active].Stood = true
			}
		}
		if !s.hands[s.active].Done() {
			return
		}
		s.active++
	}

	for _, h := range s.hands {
		if !h.Surrendered && h.Total() <= 21 {
			s.phase = PhaseDealer
			return
		}
	}
	// nothing left for the dealer to beat
	s.phase = PhaseSettle
}

// DealerStep draws one dealer card if the dealer must hit. It returns false
// once the dealer stands, moving the round to PhaseSettle. The caller paces
// the steps.
func (s *Session) DealerStep() (deck.Card, bool, error) {
	if s.phase != PhaseDealer {
		return deck.Card{}, false, fmt.Errorf("%w: dealer cannot draw during %s", ErrWrongPhase, s.phase)
	}
	if !strategy.DealerHits(s.dealer, s.settings.Rules) {
		s.logger.Debug("Dealer stands", "dealer", s.dealer, "total", evaluator.Total(s.dealer))
		s.phase = PhaseSettle
		return deck.Card{}, false, nil
	}
	return s.dealDealer(false), true, nil
}

// DealerDraws yields each card the dealer draws until the dealer stands.
// Stopping early leaves the round in PhaseDealer.
func (s *Session) DealerDraws() iter.Seq[deck.Card] {
	return func(yield func(deck.Card) bool) {
		for {
			card, drew, err := s.DealerStep()
			if err != nil || !drew {
				return
			}
			if !yield(card) {
				return
			}
		}
	}
}

// DealerAutoPlay draws every dealer card at once
func (s *Session) DealerAutoPlay() error {
	if s.phase != PhaseDealer {
		return fmt.Errorf("%w: dealer cannot draw during %s", ErrWrongPhase, s.phase)
	}
	for range s.DealerDraws() {
	}
	return nil
}

// Settle pays every hand and the insurance bet, credits the bankroll and
// returns the session to PhaseBetting.
func (s *Session) Settle() (Settlement, error) {
	if s.phase != PhaseSettle {
		return Settlement{}, fmt.Errorf("%w: cannot settle during %s", ErrWrongPhase, s.phase)
	}

	st := Settlement{
		RoundID:         s.roundID,
		Dealer:          s.dealer.Clone(),
		DealerTotal:     evaluator.Total(s.dealer),
		DealerBlackjack: evaluator.IsBlackjack(s.dealer),
		InsuranceBet:    s.insuranceBet,
		Wagered:         s.wagered,
		StartTrueCount:  s.startTrueCount,
		RunningCount:    s.RunningCount(),
	}
	for _, h := range s.hands {
		outcome, payout := settleHand(h, s.dealer, s.settings.BlackjackPayout)
		st.Hands = append(st.Hands, HandResult{
			Cards:     h.Cards.Clone(),
			Bet:       h.Bet,
			Outcome:   outcome,
			Payout:    payout,
			Net:       payout - h.Bet,
			Doubled:   h.Doubled,
			FromSplit: h.FromSplit,
		})
		st.Returned += payout
	}
	if s.insuranceBet > 0 && st.DealerBlackjack {
		st.InsurancePayout = 3 * s.insuranceBet
		st.Returned += st.InsurancePayout
	}

	s.bankroll += st.Returned
	st.Net = st.Returned - st.Wagered
	st.Bankroll = s.bankroll

	s.rounds++
	s.phase = PhaseBetting
	s.quizPending = s.settings.CountQuiz
	s.last = &st

	s.logger.Info("Round settled",
		"round", st.RoundID,
		"net", st.Net,
		"bankroll", st.Bankroll,
		"dealer", st.DealerTotal)
	if s.logger.GetLevel() <= log.DebugLevel {
		s.logger.Debug("Settlement", "dump", litter.Options{Compact: true}.Sdump(st))
	}
	s.bus.Publish(NewRoundEndEvent(st))
	return st, nil
}

// CheckCountGuess grades a running count guess between rounds
func (s *Session) CheckCountGuess(guess int) (CountCheck, error) {
	if s.phase != PhaseBetting || s.rounds == 0 {
		return CountCheck{}, fmt.Errorf("%w: count quiz is only asked after a round", ErrWrongPhase)
	}
	actual := s.RunningCount()
	check := CountCheck{Guess: guess, Actual: actual, Correct: guess == actual}
	s.accuracy.recordGuess(check)
	s.quizPending = false
	s.logger.Debug("Count guess", "guess", guess, "actual", actual)
	return check, nil
}
