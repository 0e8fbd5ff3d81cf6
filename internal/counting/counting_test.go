package counting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/randutil"
)

func TestHiLoTag(t *testing.T) {
	want := map[deck.Rank]int{
		deck.Two: 1, deck.Three: 1, deck.Four: 1, deck.Five: 1, deck.Six: 1,
		deck.Seven: 0, deck.Eight: 0, deck.Nine: 0,
		deck.Ten: -1, deck.Jack: -1, deck.Queen: -1, deck.King: -1, deck.Ace: -1,
	}
	for _, r := range deck.Ranks {
		assert.Equal(t, want[r], HiLoTag(deck.NewCard(r, deck.Spades)), "rank %s", r)
	}
}

func TestFullShoeCountsToZero(t *testing.T) {
	var all []deck.Card
	for range 6 {
		for _, s := range deck.Suits {
			for _, r := range deck.Ranks {
				all = append(all, deck.NewCard(r, s))
			}
		}
	}
	assert.Equal(t, 0, RunningCount(all))
}

func TestTrueCount(t *testing.T) {
	tests := []struct {
		name     string
		rc       int
		shoeSize int
		want     float64
	}{
		{"two decks left", 7, 104, 3.5},
		{"fresh six deck shoe", 0, 312, 0},
		{"one and a half decks", 5, 78, 3.3},
		{"negative rounds away from zero", -5, 78, -3.3},
		{"half deck floor", 4, 10, 8},
		{"empty shoe uses floor", 3, 0, 6},
		{"four decks left", 1, 208, 0.3},
		{"negative half", -1, 520, -0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TrueCount(tt.rc, tt.shoeSize), 1e-9)
		})
	}
}

func TestTrueCountHalfwayRounding(t *testing.T) {
	// 1 / 4 decks = 0.25 -> 0.3, -0.25 -> -0.3
	assert.InDelta(t, 0.3, TrueCount(1, 208), 1e-9)
	assert.InDelta(t, -0.3, TrueCount(-1, 208), 1e-9)
}

func TestCountIgnoresOrder(t *testing.T) {
	shoe, err := deck.NewShoe(2, randutil.New(11))
	require.NoError(t, err)
	for i := 0; i < 40; i++ {
		shoe.Draw()
	}
	seen := shoe.Seen()
	rc := RunningCount(seen)
	tc := TrueCount(rc, shoe.Remaining())

	rng := randutil.New(12)
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(seen), func(a, b int) { seen[a], seen[b] = seen[b], seen[a] })
		assert.Equal(t, rc, RunningCount(seen))
		assert.Equal(t, tc, TrueCount(RunningCount(seen), shoe.Remaining()))
	}
	assert.Equal(t, tc, ShoeTrueCount(shoe))
}

func TestReshuffleResetsCount(t *testing.T) {
	shoe, err := deck.NewShoe(1, randutil.New(5))
	require.NoError(t, err)
	for shoe.Remaining() >= deck.ReshuffleThreshold {
		shoe.Draw()
	}
	c := shoe.Draw() // triggers the rebuild
	assert.Equal(t, HiLoTag(c), RunningCount(shoe.Seen()))
	assert.Len(t, shoe.Seen(), 1)
}

func TestSuggestedUnits(t *testing.T) {
	assert.Equal(t, 1, SuggestedUnits(-3, 8))
	assert.Equal(t, 1, SuggestedUnits(1.9, 8))
	assert.Equal(t, 2, SuggestedUnits(2.0, 8))
	assert.Equal(t, 4, SuggestedUnits(4.7, 8))
	assert.Equal(t, 8, SuggestedUnits(12, 8))
	assert.Equal(t, 1, SuggestedUnits(5, 0))
}
