package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToWidth(t *testing.T) {
	for _, tc := range []struct{ width, n int }{{80, 3}, {81, 4}, {10, 1}, {7, 7}} {
		widths := LayoutRow(tc.width, tc.n)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if len(widths) != tc.n || sum != tc.width {
			t.Errorf("LayoutRow(%d, %d) = %v", tc.width, tc.n, widths)
		}
	}
	if got := LayoutRow(10, 0); got != nil {
		t.Errorf("LayoutRow(10, 0) = %v, want nil", got)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	row := MetricCardRow([]Metric{
		{Label: "Revenue", Value: "$100,000"},
		{Label: "Expenses", Value: "$155,000"},
		{Label: "Net Income", Value: "-$55,000", Note: "monthly", Color: theme.Active.Loss},
	}, 60)
	if w := lipgloss.Width(row); w != 60 {
		t.Errorf("row width = %d, want 60", w)
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")
	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "1\n2\n3\n4\n5", 22)

	joined := CardRow([]string{tall, short})
	if got, want := lipgloss.Height(joined), lipgloss.Height(tall); got != want {
		t.Errorf("joined height = %d, want %d", got, want)
	}
}

func TestTabVisualWidthMatchesRenderedBar(t *testing.T) {
	for active := range Tabs {
		total := 0
		for i, tab := range Tabs {
			total += TabVisualWidth(tab, i == active)
		}
		total += len(Tabs) - 1

		if got := lipgloss.Width(RenderTabBar(active, 0)); got != total {
			t.Errorf("active=%d: bar width = %d, want %d", active, got, total)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('f'); got != 1 {
		t.Errorf("TabIdxByKey('f') = %d, want 1", got)
	}
	if got := TabIdxByKey('x'); got != len(Tabs)-1 {
		t.Errorf("TabIdxByKey('x') = %d, want %d", got, len(Tabs)-1)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestSparklineWidth(t *testing.T) {
	values := []float64{-55000, -48066, -38944, -34929, 10, 0}
	if got := lipgloss.Width(Sparkline(values, theme.Active.Profit)); got != len(values) {
		t.Errorf("sparkline width = %d, want %d", got, len(values))
	}
	if Sparkline(nil, theme.Active.Profit) != "" {
		t.Error("empty sparkline should render nothing")
	}
}

func TestBarChartHeight(t *testing.T) {
	values := make([]float64, 12)
	for i := range values {
		values[i] = 155000 + float64(i)*3100
	}
	chart := BarChart(values, model.MonthLabels[:], theme.Active.Expense, 100, 8)

	// 8 rows of bars, the axis and the label line.
	if got := strings.Count(chart, "\n") + 1; got != 10 {
		t.Errorf("chart lines = %d, want 10", got)
	}
	if !strings.Contains(chart, "$200k") {
		t.Error("chart should carry a $200k ceiling tick")
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "$500"},
		{12500, "$12.5k"},
		{150000, "$150k"},
		{1500000, "$1.5M"},
		{2000000, "$2M"},
	}
	for _, tt := range tests {
		if got := FormatChartLabel(tt.in); got != tt.want {
			t.Errorf("FormatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChartTickStep(t *testing.T) {
	if got := chartTickStep(189100); got != 50000 {
		t.Errorf("chartTickStep(189100) = %v, want 50000", got)
	}
}

func TestThemeByNameFallsBack(t *testing.T) {
	if got := theme.ByName("nope").Name; got != "flexoki-dark" {
		t.Errorf("ByName fallback = %q", got)
	}
	if got := len(theme.Names()); got != len(theme.All) {
		t.Errorf("Names() len = %d", got)
	}
}
