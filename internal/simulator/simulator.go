package simulator

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-trainer/internal/game"
	"github.com/lox/blackjack-trainer/internal/randutil"
	"github.com/lox/blackjack-trainer/internal/statistics"
	"github.com/lox/blackjack-trainer/internal/strategy"
	"golang.org/x/sync/errgroup"
)

// simulatedBankroll is large enough that a worker never runs out of money
const simulatedBankroll = 1e12

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Workers  int
	Seed     int64
	Settings game.Settings
	// Spread bets the count ramp instead of a flat base unit
	Spread bool
	Logger *log.Logger
}

// Simulator plays the strategy engine against itself: every decision,
// insurance answer and bet comes from the engine, so the results show what
// perfect play earns under the configured rules.
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	config.Settings.StartingBankroll = simulatedBankroll
	return &Simulator{config: config}
}

// Run plays Rounds rounds spread over Workers independent sessions, each
// with its own shoe seeded from Seed, and returns the merged statistics.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if err := s.config.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	workers := min(s.config.Workers, s.config.Rounds)
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan *statistics.Statistics, workers)

	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		seed := randutil.Derive(s.config.Seed, w)

		g.Go(func() error {
			stats, err := s.runWorker(ctx, w, seed, rounds)
			if err != nil {
				return err
			}
			select {
			case results <- stats:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		g.Wait()
	}()

	total := &statistics.Statistics{}
	for stats := range results {
		total.Merge(stats)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	s.config.Logger.Info("Simulation complete",
		"rounds", total.Rounds,
		"workers", workers,
		"mean", total.Mean(),
		"return", total.ReturnRate())
	return total, nil
}

// runWorker plays rounds on one session
func (s *Simulator) runWorker(ctx context.Context, worker int, seed int64, rounds int) (*statistics.Statistics, error) {
	logger := s.config.Logger.With("worker", worker)
	// per-round session logs only show at debug
	sessionLogger := logger.With()
	if sessionLogger.GetLevel() > log.DebugLevel && sessionLogger.GetLevel() < log.WarnLevel {
		sessionLogger.SetLevel(log.WarnLevel)
	}
	session, err := game.NewSession(s.config.Settings, randutil.New(seed), sessionLogger)
	if err != nil {
		return nil, err
	}

	var tally decisionTally
	session.Events().Subscribe(&tally)

	stats := &statistics.Statistics{}
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tally = decisionTally{}
		st, err := s.playRound(session)
		if err != nil {
			return nil, fmt.Errorf("worker %d round %d (seed %d): %w", worker, i+1, seed, err)
		}
		stats.Add(toResult(st, s.config.Settings.BaseUnit, seed, tally))
	}
	logger.Debug("Worker finished", "rounds", rounds, "shuffles", session.Shoe().Shuffles())
	return stats, nil
}

func (s *Simulator) playRound(session *game.Session) (game.Settlement, error) {
	bet := s.config.Settings.BaseUnit
	if s.config.Spread {
		bet = session.SuggestedBet()
	}
	if err := session.DealInitialHands(bet); err != nil {
		return game.Settlement{}, err
	}

	if session.Phase() == game.PhaseInsurance {
		if _, err := session.Insurance(strategy.TakeInsurance(session.TrueCount())); err != nil {
			return game.Settlement{}, err
		}
	}
	for session.Phase() == game.PhasePlayer {
		d, err := session.Hint()
		if err != nil {
			return game.Settlement{}, err
		}
		if _, err := session.PlayerAction(d.Action); err != nil {
			return game.Settlement{}, err
		}
	}
	if session.Phase() == game.PhaseDealer {
		if err := session.DealerAutoPlay(); err != nil {
			return game.Settlement{}, err
		}
	}
	return session.Settle()
}

// decisionTally counts the decisions of the round in progress
type decisionTally struct {
	decisions  int
	deviations int
}

func (d *decisionTally) OnEvent(e game.GameEvent) {
	if ev, ok := e.(game.DecisionEvent); ok {
		d.decisions++
		if ev.Feedback.Decision.IsDeviation() {
			d.deviations++
		}
	}
}

// toResult converts a settlement to base units
func toResult(st game.Settlement, unit float64, seed int64, tally decisionTally) statistics.RoundResult {
	r := statistics.RoundResult{
		Net:        st.Net / unit,
		Wagered:    st.Wagered / unit,
		TrueCount:  st.StartTrueCount,
		Seed:       seed,
		Hands:      len(st.Hands),
		Insured:    st.InsuranceBet > 0,
		DealerBust: st.DealerTotal > 21,
		Decisions:  tally.decisions,
		Deviations: tally.deviations,
	}
	for _, h := range st.Hands {
		if h.Doubled {
			r.Doubles++
		}
		switch h.Outcome {
		case game.OutcomeBlackjack:
			r.Blackjacks++
			r.Wins++
		case game.OutcomeWin:
			r.Wins++
		case game.OutcomePush:
			r.Pushes++
		case game.OutcomeSurrender:
			r.Surrenders++
		case game.OutcomeBust:
			r.Busts++
			r.Losses++
		default:
			r.Losses++
		}
	}
	return r
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, rounds, workers int, seed int64, settings game.Settings, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Rounds:   rounds,
		Workers:  workers,
		Seed:     seed,
		Settings: settings,
		Logger:   logger,
	}).Run(ctx)
}
