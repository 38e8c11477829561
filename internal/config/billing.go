package config

import (
	"sort"
	"time"
)

// Usage kinds the meter bills for.
const (
	UsageScenario = "scenario"
	UsageReport   = "report"
)

type rateVersion struct {
	EffectiveFrom time.Time
	USD           float64
}

// DefaultRates maps usage kinds to their per-event price in USD.
var DefaultRates = map[string]float64{
	UsageScenario: 0.10,
	UsageReport:   0.25,
}

// defaultRateHistory stores effective-dated rates for each usage kind.
// Entries must be sorted by EffectiveFrom ascending.
var defaultRateHistory = makeDefaultRateHistory(DefaultRates)

func makeDefaultRateHistory(base map[string]float64) map[string][]rateVersion {
	history := make(map[string][]rateVersion, len(base))
	for kind, usd := range base {
		history[kind] = []rateVersion{{USD: usd}}
	}
	return history
}

// LookupRateAt returns the per-event rate for kind at the given time.
// If at is zero, the latest known rate is used.
func LookupRateAt(kind string, at time.Time) (float64, bool) {
	versions, ok := defaultRateHistory[kind]
	if !ok || len(versions) == 0 {
		return 0, false
	}
	if at.IsZero() {
		return versions[len(versions)-1].USD, true
	}

	at = at.UTC()
	i := sort.Search(len(versions), func(i int) bool {
		return versions[i].EffectiveFrom.UTC().After(at)
	})
	if i == 0 {
		return versions[0].USD, true
	}
	return versions[i-1].USD, true
}

// Rates resolves the per-event rates, applying any config overrides on top
// of the current defaults.
func (b BillingConfig) Rates() map[string]float64 {
	rates := make(map[string]float64, len(DefaultRates))
	for kind := range DefaultRates {
		rates[kind], _ = LookupRateAt(kind, time.Time{})
	}
	if b.PerScenarioUSD != nil {
		rates[UsageScenario] = *b.PerScenarioUSD
	}
	if b.PerReportUSD != nil {
		rates[UsageReport] = *b.PerReportUSD
	}
	return rates
}
