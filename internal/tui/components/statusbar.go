package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left, the
// derivation mode and usage counters on the right, and an optional notice
// in between.
func RenderStatusBar(width int, mode string, counts model.UsageCounts, notice string) string {
	t := theme.Active

	style := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := " [?]help  [a]nalyze  [q]uit"
	right := fmt.Sprintf("%s · %d scenarios · %d reports ", mode, counts.Scenarios, counts.Reports)

	middle := ""
	if notice != "" {
		middle = "  " + notice
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(middle)-lipgloss.Width(right), 0)

	return style.Render(left) +
		noticeStyle.Render(middle) +
		style.Render(fmt.Sprintf("%*s", padding, "")) +
		style.Render(right)
}
