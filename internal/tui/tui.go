package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/evaluator"
	"github.com/lox/blackjack-trainer/internal/game"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// Model is the Bubble Tea model of the interactive trainer. Key presses
// become session calls and the session's events feed the log pane.
type Model struct {
	session   *game.Session
	logger    *log.Logger
	clock     quartz.Clock
	formatter *game.EventFormatter

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	// State
	gameLog       []string
	status        string
	statusStyle   lipgloss.Style
	lastBet       float64
	dealerPending bool
	quitting      bool
	focusedPane   int // 0 = log, 1 = table

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// dealerTickMsg asks the model to draw the next dealer card
type dealerTickMsg struct{}

// Option configures a Model
type Option func(*Model)

// WithClock paces dealer draws with clock instead of the wall clock
func WithClock(clock quartz.Clock) Option {
	return func(m *Model) { m.clock = clock }
}

// WithTestMode captures log entries and skips viewport updates
func WithTestMode() Option {
	return func(m *Model) { m.testMode = true }
}

// NewModel creates the trainer model for session
func NewModel(session *game.Session, logger *log.Logger, opts ...Option) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.CharLimit = 12
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))

	m := &Model{
		session:     session,
		logger:      logger.WithPrefix("tui"),
		clock:       quartz.NewReal(),
		logViewport: vp,
		input:       ti,
		gameLog:     []string{},
		statusStyle: InfoStyle,
		focusedPane: 1,
		capturedLog: []string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.formatter = m.newFormatter()
	session.Events().Subscribe(game.SubscriberFunc(m.onEvent))
	m.syncInput()
	return m
}

func (m *Model) newFormatter() *game.EventFormatter {
	return game.NewEventFormatter(game.FormattingOptions{
		ShowReasons: true,
		ShowCount:   m.session.Settings().CountingDisplay,
		Color:       !m.testMode,
	})
}

func (m *Model) onEvent(event game.GameEvent) {
	text := m.formatter.Format(event)
	if text == "" {
		return
	}
	if event.EventType() == game.EventTypeRoundStart && len(m.gameLog) > 0 {
		m.AddLogEntry("")
	}
	for _, line := range strings.Split(text, "\n") {
		m.AddLogEntry(line)
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case dealerTickMsg:
		m.dealerPending = false
		return m, m.stepDealer()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
			} else {
				m.focusedPane = 0
			}
			m.syncInput()
			return m, nil
		case "ctrl+t":
			m.toggleCountDisplay()
			return m, nil
		}

		if m.focusedPane == 0 {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.input.Focused() {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// handleKey routes a key press by phase
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.session.Phase() {
	case game.PhaseBetting:
		if msg.Type == tea.KeyEnter {
			m.submitInput()
			return m.advance()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd

	case game.PhaseInsurance:
		switch msg.String() {
		case "y":
			m.answerInsurance(true)
		case "n":
			m.answerInsurance(false)
		}

	case game.PhasePlayer:
		switch key := msg.String(); key {
		case "?":
			m.showHint()
		case "h", "s", "d", "p", "r":
			action, _ := strategy.ParseAction(key)
			m.play(action)
		}
	}
	return m.advance()
}

// submitInput reads the text input as a count guess when the quiz is
// pending, otherwise as a bet. An empty bet repeats the last one.
func (m *Model) submitInput() {
	value := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if m.session.QuizPending() {
		guess, err := strconv.Atoi(value)
		if err != nil {
			m.setStatus(ErrorStyle, fmt.Sprintf("Enter the running count as a whole number, not %q", value))
			return
		}
		check, err := m.session.CheckCountGuess(guess)
		if err != nil {
			m.setStatus(ErrorStyle, err.Error())
			return
		}
		if check.Correct {
			m.setStatus(SuccessStyle, fmt.Sprintf("Correct, the running count is %+d", check.Actual))
		} else {
			m.setStatus(ErrorStyle, fmt.Sprintf("Not quite: you said %+d, the running count is %+d", check.Guess, check.Actual))
		}
		m.AddLogEntry(fmt.Sprintf("Count quiz: guessed %+d, actual %+d", check.Guess, check.Actual))
		return
	}

	bet := m.lastBet
	if value != "" {
		v, err := strconv.ParseFloat(strings.TrimPrefix(value, "$"), 64)
		if err != nil {
			m.setStatus(ErrorStyle, fmt.Sprintf("Invalid bet %q", value))
			return
		}
		bet = v
	}
	if bet == 0 {
		bet = m.session.Settings().MinBet
	}
	if err := m.session.DealInitialHands(bet); err != nil {
		m.setStatus(ErrorStyle, err.Error())
		return
	}
	m.lastBet = bet
	m.setStatus(InfoStyle, "")
	if m.session.Phase() == game.PhaseInsurance {
		m.setStatus(WarningStyle, "Dealer shows an Ace. Insurance? (y/n)")
	}
}

func (m *Model) answerInsurance(take bool) {
	fb, err := m.session.Insurance(take)
	if err != nil {
		m.setStatus(ErrorStyle, err.Error())
		return
	}
	answer := "declined"
	if fb.Taken {
		answer = "taken"
	}
	if fb.Correct {
		m.setStatus(SuccessStyle, fmt.Sprintf("✓ Insurance %s", answer))
	} else {
		m.setStatus(ErrorStyle, fmt.Sprintf("✗ Insurance %s, take it only at TC %+.0f or higher (TC now %+.1f)",
			answer, strategy.InsuranceThreshold(), fb.TrueCount))
	}
	m.AddLogEntry(fmt.Sprintf("Insurance %s", answer))
}

func (m *Model) play(action strategy.Action) {
	fb, err := m.session.PlayerAction(action)
	if err != nil {
		if errors.Is(err, game.ErrIllegalAction) {
			m.setStatus(WarningStyle, fmt.Sprintf("Cannot %s now, try %s", action, m.session.Allowed()))
			return
		}
		m.setStatus(ErrorStyle, err.Error())
		return
	}
	if fb.Correct {
		m.setStatus(SuccessStyle, fmt.Sprintf("✓ %s", fb.Decision.Reason))
	} else {
		m.setStatus(ErrorStyle, fmt.Sprintf("✗ %s was wrong: %s", fb.Chosen, fb.Decision.Reason))
	}
}

func (m *Model) showHint() {
	d, err := m.session.Hint()
	if err != nil {
		m.setStatus(ErrorStyle, err.Error())
		return
	}
	m.setStatus(WarningStyle, fmt.Sprintf("Hint: %s (%s)", d.Action, d.Reason))
}

// advance moves the round along after a player input: the dealer is
// stepped through the clock and a finished round is settled at once.
func (m *Model) advance() tea.Cmd {
	var cmd tea.Cmd
	switch m.session.Phase() {
	case game.PhaseDealer:
		if !m.dealerPending {
			m.dealerPending = true
			cmd = m.scheduleDealer()
		}
	case game.PhaseSettle:
		m.settle()
	}
	m.syncInput()
	return cmd
}

// scheduleDealer delivers a dealerTickMsg after the configured delay
func (m *Model) scheduleDealer() tea.Cmd {
	delay := m.session.Settings().DealerDelay
	if delay <= 0 {
		return func() tea.Msg { return dealerTickMsg{} }
	}
	ready := make(chan struct{}, 1)
	m.clock.AfterFunc(delay, func() { ready <- struct{}{} })
	return func() tea.Msg {
		<-ready
		return dealerTickMsg{}
	}
}

func (m *Model) stepDealer() tea.Cmd {
	if m.session.Phase() != game.PhaseDealer {
		return nil
	}
	if _, _, err := m.session.DealerStep(); err != nil {
		m.setStatus(ErrorStyle, err.Error())
		return nil
	}
	return m.advance()
}

func (m *Model) settle() {
	st, err := m.session.Settle()
	if err != nil {
		m.setStatus(ErrorStyle, err.Error())
		return
	}
	style := InfoStyle
	switch {
	case st.Net > 0:
		style = SuccessStyle
	case st.Net < 0:
		style = ErrorStyle
	}
	msg := fmt.Sprintf("Round over: %s", signed(st.Net))
	if m.session.QuizPending() {
		msg += ". What is the running count?"
	}
	m.setStatus(style, msg)
}

func (m *Model) toggleCountDisplay() {
	next := m.session.Settings()
	next.CountingDisplay = !next.CountingDisplay
	if err := m.session.ApplySettings(next); err != nil {
		m.setStatus(ErrorStyle, err.Error())
		return
	}
	m.formatter = m.newFormatter()
	state := "hidden"
	if next.CountingDisplay {
		state = "shown"
	}
	m.setStatus(InfoStyle, "Count "+state)
}

// syncInput focuses the text input only while it can be used
func (m *Model) syncInput() {
	if m.focusedPane == 1 && m.session.Phase() == game.PhaseBetting {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	if m.session.QuizPending() {
		m.input.Prompt = "count> "
		m.input.Placeholder = "running count"
	} else {
		m.input.Prompt = "bet $"
		m.input.Placeholder = fmt.Sprintf("%g (suggested %g)", m.defaultBet(), m.session.SuggestedBet())
	}
}

func (m *Model) defaultBet() float64 {
	if m.lastBet > 0 {
		return m.lastBet
	}
	return m.session.Settings().MinBet
}

func (m *Model) setStatus(style lipgloss.Style, status string) {
	m.statusStyle = style
	m.status = status
}

// Status returns the feedback line shown under the table
func (m *Model) Status() string {
	return m.status
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarWidth := max(lipgloss.Width(m.renderSidebarPane()), 28)
	paneHeight := max(m.height-actionHeight-4, 1)
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(m.renderSidebarPane())

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logStyle.Render(m.logViewport.View()), sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows bankroll, count and accuracy
func (m *Model) renderSidebarPane() string {
	var b strings.Builder
	settings := m.session.Settings()

	b.WriteString(HeaderStyle.Render(" Blackjack Trainer "))
	b.WriteString("\n\n")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Bankroll: $%s", strconv.FormatFloat(m.session.Bankroll(), 'f', -1, 64))))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Rounds: %d\n", m.session.Rounds())
	fmt.Fprintf(&b, "Decks left: %.1f of %d\n", m.session.DecksRemaining(), settings.Decks)

	if settings.CountingDisplay {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Running count: %+d\n", m.session.RunningCount())
		fmt.Fprintf(&b, "True count: %+.1f\n", m.session.TrueCount())
		fmt.Fprintf(&b, "Suggested bet: $%g\n", m.session.SuggestedBet())
	}

	acc := m.session.Accuracy()
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Accuracy"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Decisions: %d/%d (%.0f%%)\n", acc.CorrectDecisions, acc.Decisions, acc.DecisionRate()*100)
	fmt.Fprintf(&b, "Deviations: %d/%d\n", acc.CorrectDeviations, acc.Deviations)
	fmt.Fprintf(&b, "Insurance: %d/%d\n", acc.CorrectInsurance, acc.Insurance)
	if settings.CountQuiz {
		fmt.Fprintf(&b, "Count quiz: %d/%d\n", acc.CorrectGuesses, acc.CountGuesses)
	}
	return b.String()
}

// renderActionPane shows the table, feedback and the keys for the phase
func (m *Model) renderActionPane() string {
	var b strings.Builder
	phase := m.session.Phase()

	if len(m.session.Dealer()) > 0 && phase != game.PhaseBetting {
		b.WriteString(m.renderTable())
	} else if st, ok := m.session.LastSettlement(); ok {
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Last round: dealer %s (%s)",
			m.formatCards(st.Dealer, false), evaluator.Describe(st.Dealer))))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	switch phase {
	case game.PhaseBetting:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Enter to deal • Ctrl+T toggle count • Tab to scroll log • Ctrl+C to quit"))
	case game.PhaseInsurance:
		b.WriteString(ActionsStyle.Render("Insurance: [y]es [n]o"))
	case game.PhasePlayer:
		b.WriteString(m.renderAvailableActions())
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("? for a hint • Tab to scroll log • Ctrl+C to quit"))
	default:
		b.WriteString(InfoStyle.Render("Dealer plays..."))
	}
	return b.String()
}

func (m *Model) renderTable() string {
	var b strings.Builder
	dealer := m.session.Dealer()
	hidden := m.session.Phase().HoleCardHidden()
	if hidden {
		up, _ := m.session.DealerUpcard()
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Dealer: %s (%s showing)", m.formatCards(dealer, true), up)))
	} else {
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Dealer: %s (%s)", m.formatCards(dealer, false), evaluator.Describe(dealer))))
	}
	b.WriteString("\n")

	hands := m.session.Hands()
	for i, h := range hands {
		line := fmt.Sprintf("Hand %d: %s (%s) $%g", i+1, m.formatCards(h.Cards, false), evaluator.Describe(h.Cards), h.Bet)
		switch {
		case h.Surrendered:
			line += " surrendered"
		case h.Doubled:
			line += " doubled"
		}
		if m.session.Phase() == game.PhasePlayer && i == m.session.ActiveHand() {
			b.WriteString(ActiveHandStyle.Render("▶ " + line))
		} else {
			b.WriteString(TableStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderAvailableActions lists the legal actions with their keys
func (m *Model) renderAvailableActions() string {
	keys := map[strategy.Action]string{
		strategy.Hit:       "[h]it",
		strategy.Stand:     "[s]tand",
		strategy.Double:    "[d]ouble",
		strategy.Split:     "s[p]lit",
		strategy.Surrender: "su[r]render",
	}
	var actions []string
	for _, a := range m.session.Allowed().Actions() {
		actions = append(actions, keys[a])
	}
	if len(actions) == 0 {
		return ErrorStyle.Render("[no actions available]")
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatCards formats cards with colors, masking the hole card if asked
func (m *Model) formatCards(cards deck.Hand, hideHole bool) string {
	formatted := make([]string, 0, len(cards))
	for i, card := range cards {
		switch {
		case hideHole && i == 1:
			formatted = append(formatted, HiddenCardStyle.Render("??"))
		case card.IsRed():
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		default:
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func signed(v float64) string {
	if v < 0 {
		return "-$" + strconv.FormatFloat(-v, 'f', -1, 64)
	}
	return "+$" + strconv.FormatFloat(v, 'f', -1, 64)
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *Model) IsTestMode() bool {
	return m.testMode
}
