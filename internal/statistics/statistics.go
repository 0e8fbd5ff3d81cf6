package statistics

import (
	"fmt"
	"math"
	"sort"
)

// Count buckets run from MinBucket to MaxBucket; true counts beyond either
// end land in the end bucket.
const (
	MinBucket = -5
	MaxBucket = 5
)

// RoundResult represents the outcome of a single blackjack round. Money is
// in base betting units.
type RoundResult struct {
	Net       float64 // units won or lost, insurance included
	Wagered   float64 // units put at risk: bet, doubles, splits, insurance
	TrueCount float64 // true count when the round was dealt
	Seed      int64   // shoe seed of the worker (for replay)

	Hands      int // hands played after splitting
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Doubles    int
	Surrenders int
	Busts      int
	Insured    bool
	DealerBust bool
	Deviations int // decisions decided by a count deviation
	Decisions  int
}

// BucketStats tracks results for rounds dealt at one true count bucket
type BucketStats struct {
	Rounds int
	SumNet float64
	SumWag float64
}

// Statistics tracks blackjack simulation statistics
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation
	Wagered float64

	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Doubles    int
	Surrenders int
	Busts      int
	Insured    int
	DealerBust int
	Decisions  int
	Deviations int

	// Results by true count at the deal, index Bucket(tc)-MinBucket
	Buckets [MaxBucket - MinBucket + 1]BucketStats
}

// Bucket returns the count bucket of a true count: its floor, clamped
func Bucket(trueCount float64) int {
	b := int(math.Floor(trueCount))
	return min(max(b, MinBucket), MaxBucket)
}

// Mean returns the arithmetic mean result in units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// ReturnRate returns net result per unit wagered, the player's edge
func (s *Statistics) ReturnRate() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.SumNet / s.Wagered
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += result.Wagered

	s.Hands += result.Hands
	s.Wins += result.Wins
	s.Losses += result.Losses
	s.Pushes += result.Pushes
	s.Blackjacks += result.Blackjacks
	s.Doubles += result.Doubles
	s.Surrenders += result.Surrenders
	s.Busts += result.Busts
	s.Decisions += result.Decisions
	s.Deviations += result.Deviations
	if result.Insured {
		s.Insured++
	}
	if result.DealerBust {
		s.DealerBust++
	}

	b := &s.Buckets[Bucket(result.TrueCount)-MinBucket]
	b.Rounds++
	b.SumNet += net
	b.SumWag += result.Wagered
}

// Merge folds other into s, for combining worker results
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered

	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Doubles += other.Doubles
	s.Surrenders += other.Surrenders
	s.Busts += other.Busts
	s.Insured += other.Insured
	s.DealerBust += other.DealerBust
	s.Decisions += other.Decisions
	s.Deviations += other.Deviations

	for i := range s.Buckets {
		s.Buckets[i].Rounds += other.Buckets[i].Rounds
		s.Buckets[i].SumNet += other.Buckets[i].SumNet
		s.Buckets[i].SumWag += other.Buckets[i].SumWag
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// BucketMean returns the mean result of rounds dealt in count bucket b
func (s *Statistics) BucketMean(b int) float64 {
	if b < MinBucket || b > MaxBucket {
		return 0
	}
	bs := s.Buckets[b-MinBucket]
	if bs.Rounds == 0 {
		return 0
	}
	return bs.SumNet / float64(bs.Rounds)
}

// IsLedgerBalanced checks the count buckets account for every unit won or lost
func (s *Statistics) IsLedgerBalanced() bool {
	var sum float64
	for _, b := range s.Buckets {
		sum += b.SumNet
	}
	return math.Abs(s.SumNet-sum) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: total net %.6f does not match count buckets", s.SumNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Hands < s.Rounds {
		return fmt.Errorf("hands (%d) fewer than rounds (%d)", s.Hands, s.Rounds)
	}

	outcomes := s.Wins + s.Losses + s.Pushes + s.Surrenders
	if outcomes != s.Hands {
		return fmt.Errorf("outcomes (%d) do not match hands (%d)", outcomes, s.Hands)
	}

	bucketRounds := 0
	for _, b := range s.Buckets {
		bucketRounds += b.Rounds
	}
	if bucketRounds != s.Rounds {
		return fmt.Errorf("bucket rounds total (%d) does not match total rounds (%d)",
			bucketRounds, s.Rounds)
	}

	return nil
}
