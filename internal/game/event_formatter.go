package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/evaluator"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowReasons bool // Include the engine's explanation on decisions
	ShowCount   bool // Include running/true count where known
	Color       bool // ANSI colour for red suits and outcomes
}

// EventFormatter provides centralized formatting for all game events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any event as a single log line, or "" for events that are
// not shown.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case RoundStartEvent:
		return ef.FormatRoundStart(e)
	case ShuffleEvent:
		return ef.FormatShuffle(e)
	case CardEvent:
		return ef.FormatCard(e)
	case DecisionEvent:
		return ef.FormatDecision(e)
	case RoundEndEvent:
		return ef.FormatRoundEnd(e)
	default:
		return ""
	}
}

// FormatRoundStart formats a round start event
func (ef *EventFormatter) FormatRoundStart(event RoundStartEvent) string {
	line := fmt.Sprintf("Round %s: bet %s, bankroll %s", shortID(event.RoundID), dollars(event.Bet), dollars(event.Bankroll))
	if ef.opts.ShowCount {
		line += fmt.Sprintf(" (TC %+.1f)", event.TrueCount)
	}
	return line
}

// FormatShuffle formats a shuffle event
func (ef *EventFormatter) FormatShuffle(event ShuffleEvent) string {
	return fmt.Sprintf("*** Shuffle: %d decks, count reset ***", event.Decks)
}

// FormatCard formats a dealt card, hiding face-down cards
func (ef *EventFormatter) FormatCard(event CardEvent) string {
	who := fmt.Sprintf("Hand %d", event.Seat+1)
	if event.Seat == DealerSeat {
		who = "Dealer"
	}
	if event.FaceDown {
		return fmt.Sprintf("%s: [hole card]", who)
	}
	return fmt.Sprintf("%s: %s", who, ef.formatCard(event.Card))
}

// FormatDecision formats a graded decision
func (ef *EventFormatter) FormatDecision(event DecisionEvent) string {
	fb := event.Feedback
	var b strings.Builder
	if fb.Correct {
		b.WriteString(ef.paint("✓", "32"))
		fmt.Fprintf(&b, " %s", fb.Chosen)
	} else {
		b.WriteString(ef.paint("✗", "31"))
		fmt.Fprintf(&b, " %s, correct play was %s", fb.Chosen, fb.Recommended)
	}
	if ef.opts.ShowReasons && fb.Decision.Reason != "" {
		fmt.Fprintf(&b, " (%s)", fb.Decision.Reason)
	}
	if ef.opts.ShowCount {
		fmt.Fprintf(&b, " [RC %+d, TC %+.1f]", fb.RunningCount, fb.TrueCount)
	}
	return b.String()
}

// FormatRoundEnd formats a settlement
func (ef *EventFormatter) FormatRoundEnd(event RoundEndEvent) string {
	st := event.Settlement
	var b strings.Builder

	dealer := fmt.Sprintf("Dealer %s (%s)", ef.formatCards(st.Dealer), evaluator.Describe(st.Dealer))
	b.WriteString(dealer)
	for i, h := range st.Hands {
		fmt.Fprintf(&b, "\nHand %d %s (%s): %s %s",
			i+1, ef.formatCards(h.Cards), evaluator.Describe(h.Cards), ef.formatOutcome(h.Outcome), money(h.Net))
	}
	if st.InsuranceBet > 0 {
		fmt.Fprintf(&b, "\nInsurance: %s", money(st.InsurancePayout-st.InsuranceBet))
	}
	fmt.Fprintf(&b, "\nNet %s, bankroll %s", money(st.Net), dollars(st.Bankroll))
	return b.String()
}

func (ef *EventFormatter) formatOutcome(o Outcome) string {
	switch o {
	case OutcomeWin, OutcomeBlackjack:
		return ef.paint(o.String(), "32")
	case OutcomePush:
		return o.String()
	default:
		return ef.paint(o.String(), "31")
	}
}

// formatCards formats a slice of cards with appropriate styling
func (ef *EventFormatter) formatCards(cards deck.Hand) string {
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = ef.formatCard(card)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// formatCard formats a single card, red suits in red when colour is on
func (ef *EventFormatter) formatCard(card deck.Card) string {
	if card.IsRed() {
		return ef.paint(card.String(), "31")
	}
	return card.String()
}

func (ef *EventFormatter) paint(s, code string) string {
	if !ef.opts.Color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// money renders a signed amount, "+$25" or "-$12.5"
func money(v float64) string {
	if v < 0 {
		return "-" + dollars(-v)
	}
	return "+" + dollars(v)
}

func dollars(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
