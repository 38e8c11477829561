package pipeline

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
)

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", "name: Alpha\npricing_pct: 150\n")
	writeScenario(t, dir, "b.json", `{"name":"Beta","hiring_count":3}`)
	writeScenario(t, dir, "c.toml", "pricing_pct = 500\n")
	writeScenario(t, dir, "d.yaml", "::: not yaml")

	var calls atomic.Int64
	res, err := Load(dir, func(current, total int) {
		calls.Add(1)
		if total != 4 {
			t.Errorf("total = %d, want 4", total)
		}
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.TotalFiles != 4 || res.ParsedFiles != 2 {
		t.Fatalf("TotalFiles=%d ParsedFiles=%d, want 4 and 2", res.TotalFiles, res.ParsedFiles)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2", res.Errors)
	}
	if calls.Load() != 4 {
		t.Fatalf("progress called %d times, want 4", calls.Load())
	}
	if res.Scenarios[0].Name != "Alpha" || res.Scenarios[1].Name != "Beta" {
		t.Fatalf("Scenarios out of order: %+v", res.Scenarios)
	}
}

func TestLoadEmptyDir(t *testing.T) {
	res, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFiles != 0 || len(res.Scenarios) != 0 {
		t.Fatalf("res = %+v", res)
	}
}

func TestCompare(t *testing.T) {
	scenarios := []model.NamedScenario{
		{Name: "default", Scenario: forecast.DefaultScenario()},
		{Name: "premium", Scenario: forecast.Derive(0, 0, 200)},
		{Name: "lean", Scenario: forecast.Derive(20, 2, 120)},
	}
	rows := Compare(scenarios)
	if len(rows) != 3 {
		t.Fatalf("len = %d", len(rows))
	}
	if rows[0].Name != "premium" || rows[2].Name != "default" {
		t.Fatalf("ranking = %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
	}
	if rows[0].FirstLossMonth != -1 || rows[0].ProfitableMonths != 12 {
		t.Fatalf("premium row = %+v", rows[0])
	}
	if rows[2].FirstLossMonth != 0 {
		t.Fatalf("default FirstLossMonth = %d, want 0", rows[2].FirstLossMonth)
	}

	var net float64
	for _, p := range forecast.ProjectMonths(forecast.DefaultScenario()) {
		net += p.NetIncome
	}
	if rows[2].AnnualNetIncome != net {
		t.Fatalf("AnnualNetIncome = %v, want %v", rows[2].AnnualNetIncome, net)
	}
}
