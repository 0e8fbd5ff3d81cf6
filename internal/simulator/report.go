package simulator

import (
	"fmt"
	"io"

	"github.com/lox/blackjack-trainer/internal/statistics"
	"gopkg.in/yaml.v3"
)

// Report is the machine-readable summary of a simulation run
type Report struct {
	Seed       int64          `yaml:"seed"`
	Rounds     int            `yaml:"rounds"`
	Hands      int            `yaml:"hands"`
	Mean       float64        `yaml:"mean_units_per_round"`
	Median     float64        `yaml:"median_units_per_round"`
	StdDev     float64        `yaml:"std_dev"`
	StdError   float64        `yaml:"std_error"`
	CILow      float64        `yaml:"ci95_low"`
	CIHigh     float64        `yaml:"ci95_high"`
	ReturnRate float64        `yaml:"return_rate"`
	Outcomes   OutcomeReport  `yaml:"outcomes"`
	Buckets    []BucketReport `yaml:"true_count_buckets"`
}

// OutcomeReport counts hand outcomes and player actions
type OutcomeReport struct {
	Wins       int `yaml:"wins"`
	Losses     int `yaml:"losses"`
	Pushes     int `yaml:"pushes"`
	Blackjacks int `yaml:"blackjacks"`
	Doubles    int `yaml:"doubles"`
	Surrenders int `yaml:"surrenders"`
	Busts      int `yaml:"busts"`
	Insured    int `yaml:"insured"`
	DealerBust int `yaml:"dealer_busts"`
	Decisions  int `yaml:"decisions"`
	Deviations int `yaml:"deviations"`
}

// BucketReport is the result at one true count bucket
type BucketReport struct {
	TrueCount int     `yaml:"true_count"`
	Rounds    int     `yaml:"rounds"`
	Mean      float64 `yaml:"mean_units_per_round"`
}

// NewReport builds a report from merged statistics
func NewReport(stats *statistics.Statistics, seed int64) Report {
	low, high := stats.ConfidenceInterval95()
	r := Report{
		Seed:       seed,
		Rounds:     stats.Rounds,
		Hands:      stats.Hands,
		Mean:       stats.Mean(),
		Median:     stats.Median(),
		StdDev:     stats.StdDev(),
		StdError:   stats.StdError(),
		CILow:      low,
		CIHigh:     high,
		ReturnRate: stats.ReturnRate(),
		Outcomes: OutcomeReport{
			Wins:       stats.Wins,
			Losses:     stats.Losses,
			Pushes:     stats.Pushes,
			Blackjacks: stats.Blackjacks,
			Doubles:    stats.Doubles,
			Surrenders: stats.Surrenders,
			Busts:      stats.Busts,
			Insured:    stats.Insured,
			DealerBust: stats.DealerBust,
			Decisions:  stats.Decisions,
			Deviations: stats.Deviations,
		},
	}
	for b := statistics.MinBucket; b <= statistics.MaxBucket; b++ {
		bs := stats.Buckets[b-statistics.MinBucket]
		if bs.Rounds == 0 {
			continue
		}
		r.Buckets = append(r.Buckets, BucketReport{
			TrueCount: b,
			Rounds:    bs.Rounds,
			Mean:      stats.BucketMean(b),
		})
	}
	return r
}

// WriteYAML writes the report as YAML
func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// WriteText prints a human-readable summary
func (r Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS (seed %d) ===\n", r.Seed)
	fmt.Fprintf(w, "Rounds played: %d (%d hands)\n", r.Rounds, r.Hands)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f units/round\n", r.Mean)
	fmt.Fprintf(w, "Median: %.4f units/round\n", r.Median)
	fmt.Fprintf(w, "Std Dev: %.4f units\n", r.StdDev)
	fmt.Fprintf(w, "Std Error: %.4f units\n", r.StdError)
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", r.CILow, r.CIHigh)
	fmt.Fprintf(w, "Return: %.3f%% of money wagered\n", r.ReturnRate*100)

	o := r.Outcomes
	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	if r.Hands > 0 {
		pct := func(n int) float64 { return float64(n) / float64(r.Hands) * 100 }
		fmt.Fprintf(w, "Wins: %d (%.1f%%), losses: %d (%.1f%%), pushes: %d (%.1f%%)\n",
			o.Wins, pct(o.Wins), o.Losses, pct(o.Losses), o.Pushes, pct(o.Pushes))
		fmt.Fprintf(w, "Blackjacks: %d, doubles: %d, surrenders: %d, busts: %d\n",
			o.Blackjacks, o.Doubles, o.Surrenders, o.Busts)
	}
	fmt.Fprintf(w, "Dealer busts: %d, insurance taken: %d\n", o.DealerBust, o.Insured)
	if o.Decisions > 0 {
		fmt.Fprintf(w, "Deviations: %d of %d decisions (%.2f%%)\n",
			o.Deviations, o.Decisions, float64(o.Deviations)/float64(o.Decisions)*100)
	}

	if len(r.Buckets) > 0 {
		fmt.Fprintf(w, "\n=== TRUE COUNT ANALYSIS ===\n")
		for _, b := range r.Buckets {
			fmt.Fprintf(w, "TC %+d: %d rounds, %.4f units/round\n", b.TrueCount, b.Rounds, b.Mean)
		}
	}
}
