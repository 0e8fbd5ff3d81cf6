package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/blackjack-trainer/internal/config"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// ChartCmd prints the strategy chart for the configured rules
type ChartCmd struct {
	Config      string  `short:"c" default:"blackjack-trainer.hcl" help:"Path to HCL configuration file (table rules)"`
	S17         bool    `help:"Dealer stands on soft 17 (overrides config)"`
	NoDAS       bool    `name:"no-das" help:"No double after split (overrides config)"`
	NoSurrender bool    `help:"No late surrender (overrides config)"`
	TrueCount   float64 `short:"t" default:"0" help:"True count to apply deviations at"`
}

var (
	chartHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	chartCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	chartTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

	actionColors = map[string]lipgloss.Color{
		"H": lipgloss.Color("#FAFAFA"),
		"S": lipgloss.Color("#FFD700"),
		"D": lipgloss.Color("#96CEB4"),
		"P": lipgloss.Color("#7D56F4"),
		"R": lipgloss.Color("#FF6B6B"),
	}
)

// chartUpcards are the dealer upcards in chart column order
var chartUpcards = []deck.Rank{deck.Two, deck.Three, deck.Four, deck.Five, deck.Six, deck.Seven, deck.Eight, deck.Nine, deck.Ten, deck.Ace}

func (c *ChartCmd) Run() error {
	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	rules := cfg.Rules()
	if c.S17 {
		rules.DealerHitsSoft17 = false
	}
	if c.NoDAS {
		rules.DoubleAfterSplit = false
	}
	if c.NoSurrender {
		rules.LateSurrender = false
	}

	fmt.Println(chartTitleStyle.Render(fmt.Sprintf("Strategy at TC %+g (%s)", c.TrueCount, describeRules(rules))))
	for _, section := range []struct {
		title string
		rows  []chartRow
	}{
		{"Hard totals", hardRows()},
		{"Soft totals", softRows()},
		{"Pairs", pairRows()},
	} {
		t, err := strategyTable(section.rows, c.TrueCount, rules)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(chartTitleStyle.Render(section.title))
		fmt.Println(t)
	}

	fmt.Println()
	fmt.Println(chartTitleStyle.Render("Count deviations"))
	fmt.Println(deviationTable())
	fmt.Println("H hit, S stand, D double, P split, R surrender")
	return nil
}

func describeRules(r strategy.Rules) string {
	parts := []string{"S17"}
	if r.DealerHitsSoft17 {
		parts[0] = "H17"
	}
	if r.DoubleAfterSplit {
		parts = append(parts, "DAS")
	}
	if r.LateSurrender {
		parts = append(parts, "LS")
	}
	return strings.Join(parts, ", ")
}

// chartRow is one labelled starting hand
type chartRow struct {
	label string
	hand  deck.Hand
}

func card(r deck.Rank) deck.Card {
	return deck.NewCard(r, deck.Spades)
}

func hardRows() []chartRow {
	var rows []chartRow
	for total := 5; total <= 20; total++ {
		var hand deck.Hand
		switch {
		case total <= 11:
			hand = deck.Hand{card(deck.Two), card(deck.Rank(total - 2))}
		case total < 20:
			hand = deck.Hand{card(deck.Ten), card(deck.Rank(total - 10))}
		default:
			// two ten-value cards are a pair, so hard 20 takes three
			hand = deck.Hand{card(deck.Ten), card(deck.Five), card(deck.Five)}
		}
		rows = append(rows, chartRow{label: strconv.Itoa(total), hand: hand})
	}
	return rows
}

func softRows() []chartRow {
	var rows []chartRow
	for kicker := deck.Two; kicker <= deck.Nine; kicker++ {
		rows = append(rows, chartRow{
			label: fmt.Sprintf("A,%d", int(kicker)),
			hand:  deck.Hand{card(deck.Ace), card(kicker)},
		})
	}
	return rows
}

func pairRows() []chartRow {
	var rows []chartRow
	for _, r := range []deck.Rank{deck.Two, deck.Three, deck.Four, deck.Five, deck.Six, deck.Seven, deck.Eight, deck.Nine, deck.Ten, deck.Ace} {
		rows = append(rows, chartRow{
			label: r.String() + "," + r.String(),
			hand:  deck.Hand{card(r), card(r)},
		})
	}
	return rows
}

func actionCode(a strategy.Action) string {
	switch a {
	case strategy.Hit:
		return "H"
	case strategy.Stand:
		return "S"
	case strategy.Double:
		return "D"
	case strategy.Split:
		return "P"
	case strategy.Surrender:
		return "R"
	default:
		return "?"
	}
}

func strategyTable(rows []chartRow, trueCount float64, rules strategy.Rules) (*table.Table, error) {
	headers := []string{""}
	for _, up := range chartUpcards {
		headers = append(headers, up.String())
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return chartHeaderStyle
			}
			return chartCellStyle
		})

	for _, r := range rows {
		cells := []string{r.label}
		for _, up := range chartUpcards {
			a, err := strategy.Recommend(r.hand, card(up), trueCount, rules)
			if err != nil {
				return nil, fmt.Errorf("%s vs %s: %w", r.label, up, err)
			}
			code := actionCode(a)
			cells = append(cells, lipgloss.NewStyle().Foreground(actionColors[code]).Render(code))
		}
		t.Row(cells...)
	}
	return t, nil
}

func deviationTable() *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Set", "Hand", "vs", "Play", "Index").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return chartHeaderStyle
			}
			return chartCellStyle
		})
	for _, d := range strategy.Deviations() {
		hand := d.Shape.String()
		if d.Category == strategy.CategoryInsurance {
			hand = "-"
		}
		t.Row(d.Set, hand, d.Upcard.String(), d.Category.String(), fmt.Sprintf("%+g", d.Threshold))
	}
	return t
}
