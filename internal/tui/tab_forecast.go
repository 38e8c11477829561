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

const forecastChartHeight = 8

func (a App) renderForecastTab(cw int) string {
	t := theme.Active

	revenue := make([]float64, len(a.months))
	expenses := make([]float64, len(a.months))
	net := make([]float64, len(a.months))
	for i, p := range a.months {
		revenue[i] = p.Revenue
		expenses[i] = p.Expenses
		net[i] = p.NetIncome
	}
	labels := model.MonthLabels[:]

	var b strings.Builder

	if a.isCompactLayout() {
		innerW := components.CardInnerWidth(cw)
		b.WriteString(components.ContentCard("Revenue Forecast",
			components.BarChart(revenue, labels, t.Revenue, innerW, forecastChartHeight), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Expense Forecast",
			components.BarChart(expenses, labels, t.Expense, innerW, forecastChartHeight), cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Revenue Forecast",
				components.BarChart(revenue, labels, t.Revenue, components.CardInnerWidth(widths[0]), forecastChartHeight), widths[0]),
			components.ContentCard("Expense Forecast",
				components.BarChart(expenses, labels, t.Expense, components.CardInnerWidth(widths[1]), forecastChartHeight), widths[1]),
		}))
	}
	b.WriteString("\n")

	netColor := t.Profit
	if len(net) > 0 && net[len(net)-1] < 0 {
		netColor = t.Loss
	}
	spark := components.Sparkline(net, netColor)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString(components.ContentCard("Net Income Trend",
		spark+mutedStyle.Render(fmt.Sprintf("  %s → %s", cli.FormatCurrencyK(first(net)), cli.FormatCurrencyK(last(net)))), cw))
	b.WriteString("\n")

	b.WriteString(a.renderMonthlyTable(cw))
	return b.String()
}

func (a App) renderMonthlyTable(cw int) string {
	t := theme.Active

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	monthStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	revStyle := lipgloss.NewStyle().Foreground(t.Revenue).Background(t.Surface)
	expStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)
	runwayStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	ruleStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-5s %12s %12s %12s %10s", "Month", "Revenue", "Expenses", "Net", "Runway")))
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", 5+12*3+10+4)))
	b.WriteString("\n")

	for _, p := range a.months {
		netStyle := lipgloss.NewStyle().Foreground(t.MoneyColor(p.NetIncome)).Background(t.Surface)
		b.WriteString(monthStyle.Render(fmt.Sprintf("%-5s", p.Month)))
		b.WriteString(revStyle.Render(fmt.Sprintf(" %12s", cli.FormatMoney(p.Revenue))))
		b.WriteString(expStyle.Render(fmt.Sprintf(" %12s", cli.FormatMoney(p.Expenses))))
		b.WriteString(netStyle.Render(fmt.Sprintf(" %12s", cli.FormatMoney(p.NetIncome))))
		b.WriteString(runwayStyle.Render(fmt.Sprintf(" %10s", cli.FormatRunway(p.Runway))))
		b.WriteString("\n")
	}

	return components.ContentCard("Monthly Projection", strings.TrimSuffix(b.String(), "\n"), cw)
}

func first(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

func last(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}
