package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	gainStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	lossStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	revenueStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table is a bordered text table for CLI output. The first column is
// left-aligned and the rest are right-aligned. A row holding the single
// cell "---" renders as a separator.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, measured from the cells if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

func (t Table) columnWidths() []int {
	n := len(t.Headers)
	if n == 0 && len(t.Rows) > 0 {
		n = len(t.Rows[0])
	}
	widths := make([]int, n)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	measure := func(cells []string) {
		if len(cells) == 1 && cells[0] == "---" {
			return
		}
		for i, c := range cells {
			if i < n {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	return widths
}

// rule draws a horizontal border line with the given corner and joint runes.
func rule(widths []int, left, joint, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return dimStyle.Render(left+strings.Join(parts, joint)+right) + "\n"
}

// pad fits cell into w columns. Styled cells are measured by their visible
// width.
func pad(cell string, w int, right bool) string {
	gap := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
	if right {
		return " " + gap + cell + " "
	}
	return " " + cell + gap + " "
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}
	widths := t.columnWidths()
	sep := dimStyle.Render("│")

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		cells := make([]string, len(widths))
		for i := range widths {
			h := ""
			if i < len(t.Headers) {
				h = t.Headers[i]
			}
			cells[i] = headerStyle.Render(pad(h, widths[i], false))
		}
		b.WriteString(sep + strings.Join(cells, sep) + sep + "\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		cells := make([]string, len(widths))
		for i := range widths {
			c := ""
			if i < len(row) {
				c = row[i]
			}
			cells[i] = valueStyle.Render(pad(c, widths[i], i > 0))
		}
		b.WriteString(sep + strings.Join(cells, sep) + sep + "\n")
	}
	b.WriteString(rule(widths, "╰", "┴", "╯"))

	return b.String()
}

// RenderProgressBar renders a file-count progress bar such as
// "[████░░░░] 12/30".
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := min(width, current*width/total)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s", mutedStyle.Render(bar), FormatNumber(int64(current)), FormatNumber(int64(total)))
}

// RenderSparkline generates a unicode block sparkline from a series of
// values. The lowest value maps to the shortest block, so negative series
// still render.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo > 0 {
		lo = 0
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders a horizontal bar chart entry.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return fmt.Sprintf("  %s", label)
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 0 {
		barLen = 0
	}
	barLen = min(barLen, maxWidth)
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", maxWidth-barLen)
	return fmt.Sprintf("  %-16s %s", label, mutedStyle.Render(bar))
}

// RenderMoney colors an amount green when positive and red when negative.
func RenderMoney(v float64) string {
	switch {
	case v > 0:
		return gainStyle.Render(FormatMoney(v))
	case v < 0:
		return lossStyle.Render(FormatMoney(v))
	}
	return valueStyle.Render(FormatMoney(v))
}

// RenderRevenue renders a revenue figure in the revenue color.
func RenderRevenue(v float64) string {
	return revenueStyle.Render(FormatMoney(v))
}

// RenderFlag renders a recommendation flag with its title and message.
func RenderFlag(f model.Flag) string {
	marker := gainStyle.Render("●")
	if f.Warning() {
		marker = lossStyle.Render("●")
	} else if f == model.FlagPricingTooLow {
		marker = warnStyle.Render("●")
	}
	return fmt.Sprintf("  %s %s\n    %s", marker, headerStyle.Render(f.Title()), mutedStyle.Render(f.Message()))
}

// RenderDial renders a dial as a labelled slider track.
func RenderDial(d model.Dial, v float64, width int) string {
	r := model.Ranges[d]
	pos := 0
	if r.Max > r.Min {
		pos = int((v - r.Min) / (r.Max - r.Min) * float64(width-1))
	}
	pos = max(0, min(pos, width-1))
	track := strings.Repeat("─", pos) + "●" + strings.Repeat("─", width-pos-1)
	return fmt.Sprintf("  %-20s %s %s", d.Label(), dimStyle.Render(track), valueStyle.Render(FormatDial(d, v)))
}
