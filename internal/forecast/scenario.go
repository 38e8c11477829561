// Package forecast is the scenario projection engine: it derives revenue and
// expenses from the three dials and projects them over a twelve month year.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/cfohelper/cfohelper/internal/model"
)

// Baseline figures the dials scale from.
const (
	BaseRevenue      = 100000.0
	BaseExpenses     = 50000.0
	MarketingCeiling = 50000.0
	CostPerHire      = 8000.0
)

// ErrInvalidScenario is returned when a dial is out of range or a derived
// figure is negative.
var ErrInvalidScenario = errors.New("invalid scenario")

// ErrUnknownDial is returned for a dial name the engine does not know.
var ErrUnknownDial = errors.New("unknown dial")

// Mode selects how a dial change updates the derived fields.
type Mode string

const (
	// ModePure recomputes revenue and expenses from all three dials.
	ModePure Mode = "pure"
	// ModeIncremental updates only the field tied to the changed dial, so
	// the result depends on the order dials were moved in.
	ModeIncremental Mode = "incremental"
)

// ParseMode maps a config or flag value onto a Mode. Empty means pure.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModePure:
		return ModePure, nil
	case ModeIncremental:
		return ModeIncremental, nil
	}
	return "", fmt.Errorf("unknown derivation mode %q (want pure or incremental)", s)
}

// RevenueFor returns monthly revenue at a pricing level.
func RevenueFor(pricingPct float64) float64 {
	return (pricingPct / 100) * BaseRevenue
}

// ExpensesFor returns monthly expenses for a spending level and headcount.
func ExpensesFor(spendingPct float64, hiringCount int) float64 {
	return BaseExpenses + (spendingPct/100)*MarketingCeiling + float64(hiringCount)*CostPerHire
}

// Derive builds a scenario from the three dials with both derived fields
// recomputed. Dial values are clamped to their ranges.
func Derive(spendingPct float64, hiringCount int, pricingPct float64) model.Scenario {
	s := model.Scenario{
		SpendingPct: Clamp(model.DialSpending, spendingPct),
		HiringCount: int(Clamp(model.DialHiring, float64(hiringCount))),
		PricingPct:  Clamp(model.DialPricing, pricingPct),
	}
	return Recompute(s)
}

// Recompute returns s with revenue and expenses derived from its dials.
func Recompute(s model.Scenario) model.Scenario {
	s.Revenue = RevenueFor(s.PricingPct)
	s.Expenses = ExpensesFor(s.SpendingPct, s.HiringCount)
	return s
}

// DefaultScenario is the dashboard's starting position: 50% marketing,
// ten hires and baseline pricing.
func DefaultScenario() model.Scenario {
	return Derive(50, 10, 100)
}

// DeriveScenario applies a dial change to s and returns the updated copy.
// The value is clamped to the dial's range and snapped to its step. The
// result is validated, so out-of-range dials or negative figures carried in
// s fail with ErrInvalidScenario.
func DeriveScenario(dial model.Dial, value float64, s model.Scenario, mode Mode) (model.Scenario, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return s, fmt.Errorf("%w: %s value %v is not a number", ErrInvalidScenario, dial, value)
	}
	if _, ok := model.Ranges[dial]; !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownDial, dial)
	}
	value = Clamp(dial, value)

	switch dial {
	case model.DialSpending:
		s.SpendingPct = value
	case model.DialHiring:
		s.HiringCount = int(value)
	case model.DialPricing:
		s.PricingPct = value
	}

	if mode != ModeIncremental {
		s = Recompute(s)
	} else {
		switch dial {
		case model.DialPricing:
			s.Revenue = RevenueFor(value)
		case model.DialSpending:
			// Overwrites any hiring cost already folded into expenses.
			s.Expenses = BaseExpenses + (value/100)*MarketingCeiling
		case model.DialHiring:
			s.Expenses += value * CostPerHire
		}
	}

	if err := Validate(s); err != nil {
		return s, err
	}
	return s, nil
}

// Clamp limits value to the dial's range and snaps it to the dial's step.
// Unknown dials are returned unchanged.
func Clamp(dial model.Dial, value float64) float64 {
	r, ok := model.Ranges[dial]
	if !ok {
		return value
	}
	if value < r.Min {
		value = r.Min
	}
	if value > r.Max {
		value = r.Max
	}
	if r.Step > 0 {
		value = r.Min + math.Round((value-r.Min)/r.Step)*r.Step
		if value > r.Max {
			value = r.Max
		}
	}
	return value
}

// Validate checks every dial against its range and rejects negative or
// non-finite revenue and expenses. Errors wrap ErrInvalidScenario.
func Validate(s model.Scenario) error {
	for _, d := range model.Dials {
		r := model.Ranges[d]
		v := s.Value(d)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidScenario, d)
		}
		if v < r.Min || v > r.Max {
			return fmt.Errorf("%w: %s %v outside [%v, %v]", ErrInvalidScenario, d, v, r.Min, r.Max)
		}
		if !onStep(v, r) {
			return fmt.Errorf("%w: %s %v is not a multiple of %v from %v", ErrInvalidScenario, d, v, r.Step, r.Min)
		}
	}
	derived := []struct {
		name string
		v    float64
	}{{"revenue", s.Revenue}, {"expenses", s.Expenses}}
	for _, f := range derived {
		name, v := f.name, f.v
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidScenario, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s %v is negative", ErrInvalidScenario, name, v)
		}
	}
	return nil
}

// onStep reports whether v sits on one of r's step positions.
func onStep(v float64, r model.DialRange) bool {
	if r.Step <= 0 {
		return true
	}
	const eps = 1e-9
	rem := math.Mod(v-r.Min, r.Step)
	return rem < eps || r.Step-rem < eps
}
