package forecast

import (
	"fmt"
	"math"

	"github.com/cfohelper/cfohelper/internal/model"
)

// Projection rates.
const (
	MonthlyGrowth    = 0.05
	SeasonalAmp      = 0.10
	SeasonalFreq     = 0.5
	MonthlyCostDrift = 0.02
	FixedCostShare   = 0.6
)

// ProjectMonths returns the twelve month forecast for s, January first.
// The result is a fresh slice on every call.
func ProjectMonths(s model.Scenario) []model.MonthlyPoint {
	points := make([]model.MonthlyPoint, len(model.MonthLabels))
	for i := range points {
		points[i] = projectMonth(s, i)
	}
	return points
}

func projectMonth(s model.Scenario, i int) model.MonthlyPoint {
	idx := float64(i)
	growth := 1 + idx*MonthlyGrowth
	seasonal := 1 + math.Sin(idx*SeasonalFreq)*SeasonalAmp

	revenue := math.Round(s.Revenue * growth * seasonal)
	expenses := math.Round(s.Expenses * (1 + idx*MonthlyCostDrift))
	if math.IsNaN(revenue) || math.IsNaN(expenses) {
		panic(fmt.Sprintf("forecast: month %d produced NaN for %+v", i, s))
	}

	p := model.MonthlyPoint{
		Month:     model.MonthLabels[i],
		Revenue:   revenue,
		Expenses:  expenses,
		NetIncome: revenue - expenses,
	}
	if p.NetIncome > 0 {
		p.Runway = model.RunwayInfinite
	} else {
		p.Runway = max(0, len(model.MonthLabels)-i)
	}
	return p
}

// Breakdown splits expenses into fixed and variable costs.
func Breakdown(s model.Scenario) model.Breakdown {
	fixed := s.Expenses * FixedCostShare
	return model.Breakdown{
		Revenue:       s.Revenue,
		FixedCosts:    fixed,
		VariableCosts: s.Expenses - fixed,
	}
}

// Recommend evaluates the recommendation rules independently and returns
// the raised flags in a fixed order.
func Recommend(s model.Scenario, netIncome float64) []model.Flag {
	var flags []model.Flag
	if netIncome < 0 {
		flags = append(flags, model.FlagCashFlowWarning)
	}
	if s.HiringCount > 15 {
		flags = append(flags, model.FlagHighHiringRate)
	}
	if s.PricingPct < 80 {
		flags = append(flags, model.FlagPricingTooLow)
	}
	if netIncome > 0 {
		flags = append(flags, model.FlagHealthyPosition)
	}
	return flags
}

// Recommendations expands the flags for s into titled messages.
func Recommendations(s model.Scenario) []model.Recommendation {
	flags := Recommend(s, s.NetIncome())
	out := make([]model.Recommendation, 0, len(flags))
	for _, f := range flags {
		out = append(out, model.Recommendation{Code: f, Title: f.Title(), Message: f.Message()})
	}
	return out
}

// ReportRecommendations returns the three report lines on cash flow,
// hiring and pricing, each with its positive alternative.
func ReportRecommendations(s model.Scenario) []string {
	lines := make([]string, 0, 3)
	if s.Revenue < s.Expenses {
		lines = append(lines, "Consider reducing expenses or increasing revenue")
	} else {
		lines = append(lines, "Current trajectory is positive")
	}
	if s.HiringCount > 15 {
		lines = append(lines, "High hiring rate may strain cash flow")
	} else {
		lines = append(lines, "Hiring rate is sustainable")
	}
	if s.PricingPct < 80 {
		lines = append(lines, "Pricing may be too low for profitability")
	} else {
		lines = append(lines, "Pricing strategy looks healthy")
	}
	return lines
}

// RunwayLabel describes runway for reports.
func RunwayLabel(s model.Scenario) string {
	if s.Revenue > s.Expenses {
		return "Infinite"
	}
	return "8-12 months"
}

// Summarize returns the headline figures for s.
func Summarize(s model.Scenario) model.Summary {
	net := s.NetIncome()
	return model.Summary{
		NetIncome:   net,
		BurnRate:    s.Expenses - s.Revenue,
		Profitable:  net > 0,
		RunwayLabel: RunwayLabel(s),
	}
}
