package game

import (
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// Feedback grades one player decision against the strategy engine
type Feedback struct {
	Chosen       strategy.Action
	Recommended  strategy.Action
	Correct      bool
	Decision     strategy.Decision
	RunningCount int
	TrueCount    float64
}

// InsuranceFeedback grades the answer to an insurance offer
type InsuranceFeedback struct {
	Taken        bool
	ShouldTake   bool
	Correct      bool
	RunningCount int
	TrueCount    float64
}

// CountCheck is the result of a count quiz answer
type CountCheck struct {
	Guess   int
	Actual  int
	Correct bool
}

// Accuracy tracks how well the player follows the engine
type Accuracy struct {
	Decisions         int
	CorrectDecisions  int
	Deviations        int // decisions where a count deviation was the right play
	CorrectDeviations int
	Insurance         int
	CorrectInsurance  int
	CountGuesses      int
	CorrectGuesses    int
}

func (a *Accuracy) recordDecision(f Feedback) {
	a.Decisions++
	if f.Correct {
		a.CorrectDecisions++
	}
	if f.Decision.IsDeviation() {
		a.Deviations++
		if f.Correct {
			a.CorrectDeviations++
		}
	}
}

func (a *Accuracy) recordInsurance(f InsuranceFeedback) {
	a.Insurance++
	if f.Correct {
		a.CorrectInsurance++
	}
}

func (a *Accuracy) recordGuess(c CountCheck) {
	a.CountGuesses++
	if c.Correct {
		a.CorrectGuesses++
	}
}

// DecisionRate returns the share of correct playing decisions, 0 when none
func (a Accuracy) DecisionRate() float64 {
	return ratio(a.CorrectDecisions, a.Decisions)
}

// DeviationRate returns the share of deviation spots played correctly
func (a Accuracy) DeviationRate() float64 {
	return ratio(a.CorrectDeviations, a.Deviations)
}

// CountRate returns the share of correct count quiz answers
func (a Accuracy) CountRate() float64 {
	return ratio(a.CorrectGuesses, a.CountGuesses)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
