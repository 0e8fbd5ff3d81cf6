package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-trainer/internal/randutil"
)

func TestNewShoeComposition(t *testing.T) {
	for decks := 1; decks <= 8; decks++ {
		shoe, err := NewShoe(decks, randutil.New(int64(decks)))
		require.NoError(t, err)

		assert.Equal(t, decks*CardsPerDeck, shoe.Remaining())
		assert.Equal(t, 0, shoe.SeenCount())

		counts := map[Card]int{}
		for shoe.Remaining() > ReshuffleThreshold {
			counts[shoe.Draw()]++
		}
		for shoe.Remaining() > 0 {
			// drain the rest without triggering a rebuild
			last := len(shoe.cards) - 1
			counts[shoe.cards[last]]++
			shoe.cards = shoe.cards[:last]
		}
		require.Len(t, counts, CardsPerDeck)
		for card, n := range counts {
			assert.Equal(t, decks, n, "card %s", card)
		}
	}
}

func TestNewShoeRejectsZeroDecks(t *testing.T) {
	_, err := NewShoe(0, nil)
	assert.Error(t, err)
}

func TestShoeDrawTracksSeenCards(t *testing.T) {
	shoe, err := NewShoe(2, randutil.New(42))
	require.NoError(t, err)

	var hand Hand
	for i := 0; i < 10; i++ {
		shoe.Deal(&hand)
		assert.Equal(t, shoe.Size()-shoe.Remaining(), shoe.SeenCount())
	}
	assert.Equal(t, 10, len(hand))
	assert.Equal(t, []Card(hand), shoe.Seen())
}

func TestShoeReshufflesBelowThreshold(t *testing.T) {
	shoe, err := NewShoe(1, randutil.New(7))
	require.NoError(t, err)

	shuffled := 0
	shoe.OnShuffle(func() { shuffled++ })

	for shoe.Remaining() >= ReshuffleThreshold {
		shoe.Draw()
	}
	require.Equal(t, ReshuffleThreshold-1, shoe.Remaining())
	require.Equal(t, CardsPerDeck-ReshuffleThreshold+1, shoe.SeenCount())

	shoe.Draw()

	assert.Equal(t, 1, shuffled)
	assert.Equal(t, 2, shoe.Shuffles())
	assert.Equal(t, 1, shoe.SeenCount(), "seen cards restart at the reshuffle")
	assert.Equal(t, CardsPerDeck-1, shoe.Remaining())
}

func TestShoeDeterministicForSeed(t *testing.T) {
	a, err := NewShoe(6, randutil.New(99))
	require.NoError(t, err)
	b, err := NewShoe(6, randutil.New(99))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Draw(), b.Draw())
	}
}

func TestShoeArrange(t *testing.T) {
	shoe, err := NewShoe(1, randutil.New(1))
	require.NoError(t, err)

	want := MustParseHand("As Kh 5d As")
	err = shoe.Arrange(want[:3]...)
	require.NoError(t, err)

	for _, c := range want[:3] {
		assert.Equal(t, c, shoe.Draw())
	}
	assert.Equal(t, CardsPerDeck-3, shoe.Remaining())

	// single deck has only one ace of spades and it has been dealt
	assert.Error(t, shoe.Arrange(want[3]))
}

func TestShoeReset(t *testing.T) {
	shoe, err := NewShoe(2, randutil.New(3))
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		shoe.Draw()
	}
	shoe.Reset()
	assert.Equal(t, shoe.Size(), shoe.Remaining())
	assert.Empty(t, shoe.Seen())
	assert.InDelta(t, 0.0, shoe.Penetration(), 1e-9)
}
