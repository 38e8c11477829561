// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/cfohelper/cfohelper/internal/model"
)

// FormatMoney formats a dollar amount with comma separators.
// e.g., 155000 -> "$155,000", -55000 -> "-$55,000"
func FormatMoney(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// FormatCurrencyK formats a dollar amount in whole thousands.
// e.g., 126471 -> "$126K"
func FormatCurrencyK(v float64) string {
	k := math.Round(v / 1000)
	if k == 0 {
		k = 0 // avoid "-0"
	}
	return fmt.Sprintf("$%.0fK", k)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDial formats a dial setting with its unit.
// e.g., spending 50 -> "50%", hiring 1 -> "1 person", hiring 10 -> "10 people"
func FormatDial(d model.Dial, v float64) string {
	if d == model.DialHiring {
		if v == 1 {
			return "1 person"
		}
		return fmt.Sprintf("%.0f people", v)
	}
	return fmt.Sprintf("%.0f%s", v, d.Unit())
}

// FormatRunway formats a month's runway, showing the profitable sentinel as
// infinity.
func FormatRunway(months int) string {
	if months >= model.RunwayInfinite {
		return "∞"
	}
	if months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", months)
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return FormatMoney(delta)
}
