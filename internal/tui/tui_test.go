package tui

import (
	"context"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/game"
	"github.com/lox/blackjack-trainer/internal/randutil"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestModel(t *testing.T, clock quartz.Clock, mutate ...func(*game.Settings)) (*Model, *game.Session) {
	t.Helper()
	settings := game.DefaultSettings()
	for _, fn := range mutate {
		fn(&settings)
	}
	session, err := game.NewSession(settings, randutil.New(11), testLogger())
	require.NoError(t, err)
	return NewModel(session, testLogger(), WithTestMode(), WithClock(clock)), session
}

func arrange(t *testing.T, s *game.Session, cards string) {
	t.Helper()
	require.NoError(t, s.Shoe().Arrange(deck.MustParseHand(cards)...))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

// send feeds msg to the model and returns the follow-up command
func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func bet(m *Model, amount string) tea.Cmd {
	for _, r := range amount {
		send(m, runes(string(r)))
	}
	return send(m, enter())
}

func TestTestMode(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		m, _ := newTestModel(t, quartz.NewMock(t))
		assert.True(t, m.IsTestMode())
		assert.Empty(t, m.GetCapturedLog())

		m.AddLogEntry("Shuffle")
		m.AddLogEntry("Round start")
		assert.Equal(t, []string{"Shuffle", "Round start"}, m.GetCapturedLog())
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		session, err := game.NewSession(game.DefaultSettings(), randutil.New(1), testLogger())
		require.NoError(t, err)
		m := NewModel(session, testLogger())
		assert.False(t, m.IsTestMode())

		m.AddLogEntry("Some log entry")
		assert.Nil(t, m.GetCapturedLog())
	})
}

func TestRoundWithPacedDealer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	m, s := newTestModel(t, clock)
	arrange(t, s, "10s 6d 7h 10c 5h")

	assert.Nil(t, bet(m, "25"))
	require.Equal(t, game.PhasePlayer, s.Phase())
	assert.Equal(t, 4975.0, s.Bankroll())

	cmd := send(m, runes("s"))
	require.NotNil(t, cmd, "dealer draw is scheduled")
	assert.Equal(t, game.PhaseDealer, s.Phase())
	assert.True(t, strings.HasPrefix(m.Status(), "✓"), m.Status())

	// a second key press does not schedule a second draw
	assert.Nil(t, send(m, runes("s")))

	clock.Advance(600 * time.Millisecond).MustWait(ctx)
	msg := cmd()
	require.IsType(t, dealerTickMsg{}, msg)

	cmd = send(m, msg)
	require.NotNil(t, cmd, "dealer keeps drawing on 16")
	assert.Len(t, s.Dealer(), 3)

	clock.Advance(600 * time.Millisecond).MustWait(ctx)
	assert.Nil(t, send(m, cmd()))

	assert.Equal(t, game.PhaseBetting, s.Phase())
	assert.Equal(t, 1, s.Rounds())
	assert.Equal(t, 4975.0, s.Bankroll())
	assert.Equal(t, "Round over: -$25", m.Status())

	logText := strings.Join(m.GetCapturedLog(), "\n")
	assert.Contains(t, logText, "Round ")
	assert.Contains(t, logText, "Dealer: [hole card]")
	assert.Contains(t, logText, "✓ stand")
	assert.Contains(t, logText, "Net -$25, bankroll $4975")
}

func TestEmptyBetRepeatsLast(t *testing.T) {
	m, s := newTestModel(t, quartz.NewMock(t), func(s *game.Settings) { s.DealerDelay = 0 })
	arrange(t, s, "As 6d Kh 9c")

	// player blackjack settles straight away
	bet(m, "40")
	assert.Equal(t, game.PhaseBetting, s.Phase())
	assert.Equal(t, 5060.0, s.Bankroll())
	assert.Equal(t, "Round over: +$60", m.Status())

	arrange(t, s, "10s 6d 7h 10c")
	send(m, enter())
	assert.Equal(t, game.PhasePlayer, s.Phase())
	assert.Equal(t, 5020.0, s.Bankroll(), "second round bets 40 again")
}

func TestInvalidBetKeepsBetting(t *testing.T) {
	m, s := newTestModel(t, quartz.NewMock(t))

	bet(m, "5")
	assert.Equal(t, game.PhaseBetting, s.Phase())
	assert.Contains(t, m.Status(), "invalid bet")
	assert.Equal(t, 5000.0, s.Bankroll())
}

func TestInsuranceDeclined(t *testing.T) {
	m, s := newTestModel(t, quartz.NewMock(t))
	arrange(t, s, "10s As 7h 9c")

	bet(m, "25")
	require.Equal(t, game.PhaseInsurance, s.Phase())
	assert.Contains(t, m.Status(), "Insurance?")

	send(m, runes("n"))
	assert.Equal(t, game.PhasePlayer, s.Phase())
	assert.Equal(t, "✓ Insurance declined", m.Status())
	assert.Equal(t, 1, s.Accuracy().CorrectInsurance)
}

func TestIllegalActionAndHint(t *testing.T) {
	m, s := newTestModel(t, quartz.NewMock(t))
	arrange(t, s, "10s 6d 7h 10c")
	bet(m, "25")

	send(m, runes("p"))
	assert.Equal(t, game.PhasePlayer, s.Phase())
	assert.True(t, strings.HasPrefix(m.Status(), "Cannot split"), m.Status())
	assert.Equal(t, 0, s.Accuracy().Decisions)

	send(m, runes("?"))
	assert.True(t, strings.HasPrefix(m.Status(), "Hint: stand"), m.Status())
	assert.Equal(t, 0, s.Accuracy().Decisions, "hints are not graded")
}

func TestWrongDecisionFeedback(t *testing.T) {
	m, s := newTestModel(t, quartz.NewMock(t))
	arrange(t, s, "10s 6d 7h 10c")
	bet(m, "25")

	send(m, runes("h"))
	assert.True(t, strings.HasPrefix(m.Status(), "✗ hit was wrong"), m.Status())
	assert.Equal(t, 1, s.Accuracy().Decisions)
	assert.Equal(t, 0, s.Accuracy().CorrectDecisions)
}

func TestCountQuiz(t *testing.T) {
	m, s := newTestModel(t, quartz.NewMock(t), func(s *game.Settings) {
		s.CountQuiz = true
		s.DealerDelay = 0
	})
	arrange(t, s, "As 6d Kh 9c")
	bet(m, "25")

	require.True(t, s.QuizPending())
	assert.Contains(t, m.Status(), "What is the running count?")
	assert.Equal(t, "count> ", m.input.Prompt)

	bet(m, strconv.Itoa(s.RunningCount()))
	assert.False(t, s.QuizPending())
	assert.True(t, strings.HasPrefix(m.Status(), "Correct"), m.Status())
	assert.Equal(t, 1, s.Accuracy().CorrectGuesses)
	assert.Equal(t, game.PhaseBetting, s.Phase(), "answering the quiz does not deal")
	assert.Equal(t, "bet $", m.input.Prompt)
}

func TestToggleCountDisplay(t *testing.T) {
	m, s := newTestModel(t, quartz.NewMock(t))
	require.True(t, s.Settings().CountingDisplay)

	send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.False(t, s.Settings().CountingDisplay)
	assert.Equal(t, "Count hidden", m.Status())

	send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, s.Settings().CountingDisplay)
}

func TestView(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	m, s := newTestModel(t, quartz.NewMock(t))
	assert.Equal(t, "Loading...", m.View())

	send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	assert.Contains(t, view, "Bankroll: $5000")
	assert.Contains(t, view, "Running count: +0")
	assert.Contains(t, view, "bet $")

	arrange(t, s, "10s 6d 7h 10c")
	bet(m, "25")
	view = m.View()
	assert.Contains(t, view, "[6♦ ??]")
	assert.Contains(t, view, "Hand 1: [10♠ 7♥] (hard 17) $25")
	assert.Contains(t, view, "[h]it [s]tand [d]ouble su[r]render")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, quartz.NewMock(t))
	assert.NotNil(t, send(m, tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.Empty(t, m.View())
}
