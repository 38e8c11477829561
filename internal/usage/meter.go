// Package usage meters scenario analyses and report exports and prices them
// with the configured per-event rates. Counters reset with the process.
package usage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/store"
)

// Bill is the priced usage summary.
type Bill struct {
	Currency     string          `json:"currency"`
	Scenarios    int             `json:"scenarios"`
	Reports      int             `json:"reports"`
	ScenarioRate decimal.Decimal `json:"scenarioRate"`
	ReportRate   decimal.Decimal `json:"reportRate"`
	ScenarioCost decimal.Decimal `json:"scenarioCost"`
	ReportCost   decimal.Decimal `json:"reportCost"`
	Total        decimal.Decimal `json:"total"`
}

// Meter records usage into a ledger.
type Meter struct {
	ledger   *store.Ledger
	currency string
	scenario decimal.Decimal
	report   decimal.Decimal
	now      func() time.Time
}

// NewMeter returns a meter writing to ledger and pricing with cfg's rates.
func NewMeter(ledger *store.Ledger, cfg config.BillingConfig) *Meter {
	rates := cfg.Rates()
	currency := cfg.Currency
	if currency == "" {
		currency = "USD"
	}
	return &Meter{
		ledger:   ledger,
		currency: currency,
		scenario: decimal.NewFromFloat(rates[config.UsageScenario]),
		report:   decimal.NewFromFloat(rates[config.UsageReport]),
		now:      time.Now,
	}
}

// Record stores one analysis request as a usage event.
func (m *Meter) Record(a model.Analysis) (model.UsageEvent, error) {
	at := a.Timestamp
	if at.IsZero() {
		at = m.now()
	}
	return m.ledger.RecordEvent(a.Kind, a.Prompt, a.Scenario, at)
}

// RecordScenario counts one scenario analysis.
func (m *Meter) RecordScenario(prompt string, s model.Scenario) (model.UsageEvent, error) {
	a, err := model.NewAnalysis(s, prompt, model.KindAnalysis, m.now())
	if err != nil {
		return model.UsageEvent{}, err
	}
	return m.Record(a)
}

// RecordReport counts one report export.
func (m *Meter) RecordReport(prompt string, s model.Scenario) (model.UsageEvent, error) {
	a, err := model.NewAnalysis(s, prompt, model.KindReport, m.now())
	if err != nil {
		return model.UsageEvent{}, err
	}
	return m.Record(a)
}

// Counts returns the current counters.
func (m *Meter) Counts() (model.UsageCounts, error) {
	return m.ledger.Counts()
}

// Recent returns the latest usage events, newest first.
func (m *Meter) Recent(limit int) ([]model.UsageEvent, error) {
	return m.ledger.RecentEvents(limit)
}

// Bill prices the current counters, rounded to cents.
func (m *Meter) Bill() (Bill, error) {
	counts, err := m.ledger.Counts()
	if err != nil {
		return Bill{}, fmt.Errorf("reading usage counts: %w", err)
	}
	return Price(counts, m.scenario, m.report, m.currency), nil
}

// Price computes a bill for counts at the given per-event rates.
func Price(counts model.UsageCounts, scenarioRate, reportRate decimal.Decimal, currency string) Bill {
	scenarioCost := scenarioRate.Mul(decimal.NewFromInt(int64(counts.Scenarios))).Round(2)
	reportCost := reportRate.Mul(decimal.NewFromInt(int64(counts.Reports))).Round(2)
	return Bill{
		Currency:     currency,
		Scenarios:    counts.Scenarios,
		Reports:      counts.Reports,
		ScenarioRate: scenarioRate,
		ReportRate:   reportRate,
		ScenarioCost: scenarioCost,
		ReportCost:   reportCost,
		Total:        scenarioCost.Add(reportCost),
	}
}

// Reset clears all counters.
func (m *Meter) Reset() error {
	return m.ledger.Reset()
}
