package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/tui/components"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

// dialPct is the position of v within the dial's range.
func dialPct(d model.Dial, v float64) float64 {
	r := model.Ranges[d]
	if r.Max <= r.Min {
		return 0
	}
	return (v - r.Min) / (r.Max - r.Min)
}

func (a App) renderScenarioTab(cw int) string {
	t := theme.Active
	s := a.scenario

	metrics := []components.Metric{
		{Label: "Monthly Revenue", Value: cli.FormatMoney(s.Revenue), Color: t.Revenue},
		{Label: "Monthly Expenses", Value: cli.FormatMoney(s.Expenses), Color: t.Expense},
		{Label: "Net Income", Value: cli.FormatMoney(s.NetIncome()), Color: t.MoneyColor(s.NetIncome())},
		{Label: "Runway", Value: a.summary.RunwayLabel, Note: "cash positive"},
	}
	if a.summary.BurnRate > 0 {
		metrics[3].Note = "burning " + cli.FormatMoney(a.summary.BurnRate) + "/mo"
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(a.renderDialCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderUsageCard(cw))
		return b.String()
	}

	widths := components.LayoutRow(cw, 3)
	dialW := widths[0] + widths[1]
	b.WriteString(components.CardRow([]string{
		a.renderDialCard(dialW),
		a.renderUsageCard(widths[2]),
	}))
	return b.String()
}

func (a App) renderDialCard(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	labelW := 0
	for _, d := range model.Dials {
		labelW = max(labelW, lipgloss.Width(d.Label()))
	}
	barW := max(innerW-labelW-2-12, 10)

	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Italic(true)

	var b strings.Builder
	for i, d := range model.Dials {
		v := a.scenario.Value(d)
		b.WriteString(components.DialSlider(d.Label(), cli.FormatDial(d, v), dialPct(d, v), i == a.dialIdx, labelW, barW))
		b.WriteString("\n")
		if i == a.dialIdx {
			b.WriteString(descStyle.Render("  " + truncStr(d.Description(), innerW-2)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("j/k select · ←/→ adjust · H/L ×10 · d reset"))

	return components.FocusCard("Scenario Dials", b.String(), outerW)
}

func (a App) renderUsageCard(outerW int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	costStyle := lipgloss.NewStyle().Foreground(t.Profit).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if a.meter == nil {
		return components.ContentCard("Usage", dimStyle.Render("Usage tracking is off"), outerW)
	}

	row := func(label, value string, style lipgloss.Style) string {
		return labelStyle.Render(fmt.Sprintf("%-18s", label)) + style.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(row("Scenarios analyzed", cli.FormatNumber(int64(a.counts.Scenarios)), valueStyle))
	b.WriteString(row("Reports generated", cli.FormatNumber(int64(a.counts.Reports)), valueStyle))
	b.WriteString(row("Billed", a.bill.Total.StringFixed(2)+" "+a.bill.Currency, costStyle))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Counters reset on restart"))

	return components.ContentCard("Usage", b.String(), outerW)
}
