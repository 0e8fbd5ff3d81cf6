package deck

import (
	"fmt"
	rand "math/rand/v2"
)

const (
	// CardsPerDeck is the size of one standard deck
	CardsPerDeck = 52

	// ReshuffleThreshold is the number of undealt cards below which the
	// shoe is rebuilt before the next draw
	ReshuffleThreshold = 20
)

// Shoe holds the undealt cards of one or more shuffled decks together with
// every card drawn since the last shuffle.
//
// Invariant: len(Seen()) == decks*52 - Remaining() between shuffles.
type Shoe struct {
	decks     int
	cards     []Card // undealt, next card at the end
	seen      []Card
	rng       *rand.Rand
	shuffles  int
	onShuffle func()
}

// NewShoe builds and shuffles a shoe of the given number of decks. A nil rng
// falls back to the package-level source.
func NewShoe(decks int, rng *rand.Rand) (*Shoe, error) {
	if decks < 1 {
		return nil, fmt.Errorf("shoe needs at least one deck, got %d", decks)
	}
	s := &Shoe{
		decks: decks,
		rng:   rng,
	}
	s.rebuild()
	return s, nil
}

// OnShuffle registers a callback invoked after each automatic reshuffle
func (s *Shoe) OnShuffle(fn func()) {
	s.onShuffle = fn
}

// rebuild recreates every card, shuffles them and forgets what was seen
func (s *Shoe) rebuild() {
	total := s.decks * CardsPerDeck
	if cap(s.cards) >= total {
		s.cards = s.cards[:0]
	} else {
		s.cards = make([]Card, 0, total)
	}
	for range s.decks {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}
	s.shuffle()
	s.seen = s.seen[:0]
	s.shuffles++
}

// shuffle permutes the undealt cards using Fisher-Yates
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		var j int
		if s.rng != nil {
			j = s.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Reset rebuilds the shoe immediately, clearing the seen cards
func (s *Shoe) Reset() {
	s.rebuild()
}

// Draw removes the next card from the shoe and records it as seen. When
// fewer than ReshuffleThreshold cards remain the shoe is rebuilt first, so a
// draw never fails.
func (s *Shoe) Draw() Card {
	if len(s.cards) < ReshuffleThreshold {
		s.rebuild()
		if s.onShuffle != nil {
			s.onShuffle()
		}
	}
	last := len(s.cards) - 1
	card := s.cards[last]
	s.cards = s.cards[:last]
	s.seen = append(s.seen, card)
	return card
}

// Deal draws one card and appends it to hand
func (s *Shoe) Deal(hand *Hand) Card {
	card := s.Draw()
	*hand = append(*hand, card)
	return card
}

// Decks returns the number of decks the shoe is built from
func (s *Shoe) Decks() int {
	return s.decks
}

// Size returns the number of cards in a freshly built shoe
func (s *Shoe) Size() int {
	return s.decks * CardsPerDeck
}

// Remaining returns the number of undealt cards
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Seen returns a copy of every card drawn since the last shuffle, in draw order
func (s *Shoe) Seen() []Card {
	out := make([]Card, len(s.seen))
	copy(out, s.seen)
	return out
}

// SeenCount returns how many cards have been drawn since the last shuffle
func (s *Shoe) SeenCount() int {
	return len(s.seen)
}

// Shuffles returns how many times the shoe has been built, including creation
func (s *Shoe) Shuffles() int {
	return s.shuffles
}

// Penetration returns the fraction of the shoe dealt since the last shuffle
func (s *Shoe) Penetration() float64 {
	return float64(len(s.seen)) / float64(s.Size())
}

// Arrange moves the given cards, in order, to the top of the shoe so they are
// the next ones drawn. Each card must still be undealt. Used by drills and
// tests that need a known sequence without breaking the shoe's composition.
func (s *Shoe) Arrange(cards ...Card) error {
	next := len(s.cards) - 1
	for _, want := range cards {
		if next < 0 {
			return fmt.Errorf("cannot arrange %d cards, only %d undealt", len(cards), len(s.cards))
		}
		idx := -1
		for i := next; i >= 0; i-- {
			if s.cards[i] == want {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("card %s is not in the undealt portion of the shoe", want)
		}
		s.cards[idx], s.cards[next] = s.cards[next], s.cards[idx]
		next--
	}
	return nil
}
