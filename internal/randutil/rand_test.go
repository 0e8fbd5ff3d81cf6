package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(1234), New(1234)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestSeed(t *testing.T) {
	s := int64(77)
	assert.Equal(t, int64(77), Seed(&s))
	assert.NotZero(t, Seed(nil))
}

func TestDeriveProducesDistinctSeeds(t *testing.T) {
	seen := map[int64]bool{}
	for n := 0; n < 64; n++ {
		d := Derive(5, n)
		assert.False(t, seen[d], "duplicate derived seed for worker %d", n)
		seen[d] = true
	}
}
