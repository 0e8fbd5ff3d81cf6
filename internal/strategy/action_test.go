package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := map[string]Action{
		"h": Hit, "hit": Hit, "HIT": Hit,
		"s": Stand, "stand": Stand,
		"d": Double, "double": Double,
		"p": Split, "split": Split,
		"r": Surrender, "surrender": Surrender,
	}
	for in, want := range tests {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAction("fold")
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	for a := Hit; a <= Surrender; a++ {
		parsed, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
	assert.Equal(t, "unknown", Action(42).String())
}

func TestActionSet(t *testing.T) {
	s := NewActionSet(Hit, Stand)
	assert.True(t, s.Has(Hit))
	assert.False(t, s.Has(Double))

	s = s.With(Double).Without(Hit)
	assert.Equal(t, []Action{Stand, Double}, s.Actions())
	assert.Equal(t, "[stand double]", s.String())

	assert.Equal(t, NewActionSet(Stand), s.Intersect(NewActionSet(Stand, Split)))
	assert.Len(t, AllActions.Actions(), 5)
}
