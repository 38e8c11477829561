package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

// ProgressBar renders a block bar followed by its percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clampUnit(pct)
	filled := min(int(pct*float64(width)), width)

	barColor := t.Accent
	if pct >= 0.8 {
		barColor = t.AccentBright
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled)) +
		pctStyle.Render(fmt.Sprintf(" %.0f%%", pct*100))
}

// DialSlider renders one scenario dial as a labelled slider. pct is the
// value's position within the dial's range.
func DialSlider(label, value string, pct float64, selected bool, labelW, barWidth int) string {
	t := theme.Active
	pct = clampUnit(pct)

	fill := t.TextMuted
	bg := t.Surface
	marker := "  "
	if selected {
		fill = t.Accent
		bg = t.Highlight
		marker = "▸ "
	}

	bar := progress.New(
		progress.WithSolidFill(string(fill)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	markerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(bg).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg)
	valueStyle := lipgloss.NewStyle().Foreground(fill).Background(bg).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(bg)

	return markerStyle.Render(marker) +
		labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		valueStyle.Render(fmt.Sprintf("%10s", value))
}

// ShareBar renders a compact proportion bar, used for the P&L split.
func ShareBar(label string, value, total float64, color lipgloss.Color, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if total > 0 {
		pct = clampUnit(value / total)
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}

func clampUnit(v float64) float64 {
	return max(0, min(v, 1))
}
