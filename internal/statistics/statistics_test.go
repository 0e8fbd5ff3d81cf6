package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func win(net, tc float64) RoundResult {
	return RoundResult{Net: net, Wagered: 1, TrueCount: tc, Hands: 1, Wins: 1}
}

func loss(net, tc float64) RoundResult {
	return RoundResult{Net: net, Wagered: math.Abs(net), TrueCount: tc, Hands: 1, Losses: 1}
}

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Zero(t, stats.ReturnRate())
	assert.Error(t, stats.Validate(), "no rounds")
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Net: 1.5, Wagered: 1, TrueCount: 2.4, Hands: 1, Wins: 1, Blackjacks: 1})

	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 1.5, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 1.5, stats.Median())
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, 1, stats.Buckets[2-MinBucket].Rounds)
	assert.True(t, stats.IsLedgerBalanced())
	assert.NoError(t, stats.Validate())
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}
	results := []RoundResult{
		win(1, 0),
		loss(-2, -1.2),
		win(3, 3.5),
		{Net: 0, Wagered: 1, TrueCount: 0.5, Hands: 1, Pushes: 1},
		loss(-1, 0.1),
	}
	for _, r := range results {
		stats.Add(r)
	}

	assert.Equal(t, 5, stats.Rounds)
	assert.InDelta(t, 0.2, stats.Mean(), 1e-9)
	// sample variance of {1,-2,3,0,-1}
	assert.InDelta(t, 3.7, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(3.7), stats.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(3.7)/math.Sqrt(5), stats.StdError(), 1e-9)
	assert.Equal(t, 0.0, stats.Median())
	assert.Equal(t, -2.0, stats.Percentile(0))
	assert.Equal(t, 3.0, stats.Percentile(1))

	low, high := stats.ConfidenceInterval95()
	assert.Less(t, low, stats.Mean())
	assert.Greater(t, high, stats.Mean())

	assert.InDelta(t, 1.0/6.0, stats.ReturnRate(), 1e-9)
	assert.Equal(t, 3, stats.Buckets[0-MinBucket].Rounds)
	assert.InDelta(t, 0, stats.BucketMean(0), 1e-9)
	assert.Equal(t, -2.0, stats.BucketMean(-2))
	assert.Equal(t, 3.0, stats.BucketMean(3))
	assert.Zero(t, stats.BucketMean(42))
	require.NoError(t, stats.Validate())
}

func TestBucketClamps(t *testing.T) {
	assert.Equal(t, MinBucket, Bucket(-12))
	assert.Equal(t, MaxBucket, Bucket(9.9))
	assert.Equal(t, -1, Bucket(-0.1))
	assert.Equal(t, 0, Bucket(0.9))
}

func TestMerge(t *testing.T) {
	a, b, all := &Statistics{}, &Statistics{}, &Statistics{}
	for i, r := range []RoundResult{win(1, 0), loss(-1, 2), win(2, -3), loss(-2, 6)} {
		all.Add(r)
		if i%2 == 0 {
			a.Add(r)
		} else {
			b.Add(r)
		}
	}
	a.Merge(b)

	assert.Equal(t, all.Rounds, a.Rounds)
	assert.InDelta(t, all.Mean(), a.Mean(), 1e-9)
	assert.InDelta(t, all.Variance(), a.Variance(), 1e-9)
	assert.Equal(t, all.Buckets, a.Buckets)
	assert.ElementsMatch(t, all.Values, a.Values)
	assert.NoError(t, a.Validate())
}

func TestValidateDetectsMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(win(1, 0))

	broken := *stats
	broken.SumNet += 5
	assert.Error(t, broken.Validate(), "ledger")

	broken = *stats
	broken.Wins = 0
	assert.Error(t, broken.Validate(), "outcomes")

	broken = *stats
	broken.Values = nil
	assert.Error(t, broken.Validate(), "values")
}
