// Package model defines domain types for cfohelper scenarios and projections.
package model

import (
	"fmt"
	"strings"
)

// Dial names one of the three scenario inputs a user can move.
type Dial string

// The three scenario dials.
const (
	DialSpending Dial = "spending"
	DialHiring   Dial = "hiring"
	DialPricing  Dial = "pricing"
)

// Dials lists every dial in display order.
var Dials = []Dial{DialSpending, DialHiring, DialPricing}

// DialRange describes the allowed values of a dial.
type DialRange struct {
	Min  float64
	Max  float64
	Step float64
}

// Ranges holds the allowed range and step for every dial.
var Ranges = map[Dial]DialRange{
	DialSpending: {Min: 0, Max: 100, Step: 5},
	DialHiring:   {Min: 0, Max: 20, Step: 1},
	DialPricing:  {Min: 50, Max: 200, Step: 5},
}

// ParseDial maps a user-supplied name onto a Dial.
func ParseDial(s string) (Dial, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spending", "marketing", "spend":
		return DialSpending, nil
	case "hiring", "team", "headcount":
		return DialHiring, nil
	case "pricing", "price":
		return DialPricing, nil
	}
	return "", fmt.Errorf("unknown dial %q", s)
}

// Label returns the dashboard label for a dial.
func (d Dial) Label() string {
	switch d {
	case DialSpending:
		return "Marketing Spending"
	case DialHiring:
		return "Team Size"
	case DialPricing:
		return "Product Pricing"
	}
	return string(d)
}

// Description returns the help line shown under a dial.
func (d Dial) Description() string {
	switch d {
	case DialSpending:
		return "Increase marketing budget percentage"
	case DialHiring:
		return "Number of additional team members"
	case DialPricing:
		return "Pricing adjustment from baseline"
	}
	return ""
}

// Unit returns the suffix used when displaying a dial value.
func (d Dial) Unit() string {
	if d == DialHiring {
		return " people"
	}
	return "%"
}

// Scenario is one set of financial dials plus the monthly revenue and
// expenses derived from them. Revenue and Expenses are never edited directly.
type Scenario struct {
	SpendingPct float64 `json:"spendingPct" yaml:"spending_pct" toml:"spending_pct"`
	HiringCount int     `json:"hiringCount" yaml:"hiring_count" toml:"hiring_count"`
	PricingPct  float64 `json:"pricingPct" yaml:"pricing_pct" toml:"pricing_pct"`
	Revenue     float64 `json:"revenue" yaml:"revenue" toml:"revenue"`
	Expenses    float64 `json:"expenses" yaml:"expenses" toml:"expenses"`
}

// Value returns the current setting of dial d.
func (s Scenario) Value(d Dial) float64 {
	switch d {
	case DialSpending:
		return s.SpendingPct
	case DialHiring:
		return float64(s.HiringCount)
	case DialPricing:
		return s.PricingPct
	}
	return 0
}

// NetIncome is revenue minus expenses. It is never stored.
func (s Scenario) NetIncome() float64 {
	return s.Revenue - s.Expenses
}

// NamedScenario is a scenario loaded from a file for comparison.
type NamedScenario struct {
	Name     string
	FilePath string
	Scenario Scenario
}
