package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/tui/components"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

func (a App) renderBreakdownTab(cw int) string {
	t := theme.Active
	bd := a.breakdown
	net := bd.Revenue - bd.TotalCosts()

	metrics := []components.Metric{
		{Label: "Revenue", Value: cli.FormatMoney(bd.Revenue), Color: t.Revenue},
		{Label: "Fixed Costs", Value: cli.FormatMoney(bd.FixedCosts), Note: fmt.Sprintf("%.0f%% of costs", forecast.FixedCostShare*100)},
		{Label: "Variable Costs", Value: cli.FormatMoney(bd.VariableCosts), Note: fmt.Sprintf("%.0f%% of costs", (1-forecast.FixedCostShare)*100)},
		{Label: "Net", Value: cli.FormatMoney(net), Color: t.MoneyColor(net)},
	}

	innerW := components.CardInnerWidth(cw)
	labelW := 16
	barW := max(innerW-labelW-6, 10)

	// Bars are scaled against the larger of revenue and total costs so the
	// two sides of the P&L are comparable.
	scale := max(bd.Revenue, bd.TotalCosts())

	var body strings.Builder
	body.WriteString(components.ShareBar("Revenue", bd.Revenue, scale, t.Revenue, labelW, barW))
	body.WriteString("\n")
	body.WriteString(components.ShareBar("Fixed Costs", bd.FixedCosts, scale, t.Expense, labelW, barW))
	body.WriteString("\n")
	body.WriteString(components.ShareBar("Variable Costs", bd.VariableCosts, scale, t.Warning, labelW, barW))
	body.WriteString("\n\n")

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	margin := "n/a"
	if bd.Revenue > 0 {
		margin = cli.FormatPercent(net / bd.Revenue)
	}
	body.WriteString(mutedStyle.Render(fmt.Sprintf("Total costs %s · margin %s",
		cli.FormatMoney(bd.TotalCosts()), margin)))

	return components.MetricCardRow(metrics, cw) + "\n" +
		components.ContentCard("Profit & Loss", body.String(), cw)
}
