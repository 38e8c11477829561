package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/tui/components"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

func flagColor(f model.Flag) lipgloss.Color {
	t := theme.Active
	switch {
	case f.Warning():
		return t.Loss
	case f == model.FlagPricingTooLow:
		return t.Warning
	default:
		return t.Profit
	}
}

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	msgStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(innerW - 4)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var flags strings.Builder
	for i, r := range a.recs {
		if i > 0 {
			flags.WriteString("\n\n")
		}
		markStyle := lipgloss.NewStyle().Foreground(flagColor(r.Code)).Background(t.Surface).Bold(true)
		flags.WriteString(markStyle.Render("● " + r.Title))
		flags.WriteString("\n")
		flags.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
		flags.WriteString(msgStyle.Render(r.Message))
	}

	var analysis strings.Builder
	if a.analysis == nil {
		analysis.WriteString(dimStyle.Render("Press a to analyze this scenario."))
	} else {
		promptStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Italic(true)
		analysis.WriteString(promptStyle.Render("“" + truncStr(a.analysis.Prompt, innerW-4) + "”"))
		analysis.WriteString("\n")
		analysis.WriteString(dimStyle.Render("Analyzed at " + a.analysis.Timestamp.Format("15:04:05")))
	}

	return components.ContentCard("Last Analysis", analysis.String(), cw) + "\n" +
		components.ContentCard("Recommendations", flags.String(), cw)
}
