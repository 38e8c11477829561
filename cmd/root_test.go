package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cfohelper/cfohelper/internal/forecast"
)

// withFlags points the commands at a missing config file and restores every
// global flag when the test ends.
func withFlags(t *testing.T, set map[string]string) {
	t.Helper()
	flagConfig = filepath.Join(t.TempDir(), "missing.toml")
	flagQuiet = true
	pf := rootCmd.PersistentFlags()
	for name, val := range set {
		if err := pf.Set(name, val); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}
	t.Cleanup(func() {
		for _, name := range []string{"spending", "hiring", "pricing", "incremental", "scenario"} {
			f := pf.Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		flagConfig = ""
		flagQuiet = false
	})
}

func TestLoadScenarioDefaults(t *testing.T) {
	withFlags(t, nil)
	_, s, mode, err := currentScenario()
	if err != nil {
		t.Fatalf("currentScenario: %v", err)
	}
	if mode != forecast.ModePure {
		t.Fatalf("mode = %s, want pure", mode)
	}
	if s.Revenue != 100000 || s.Expenses != 155000 {
		t.Fatalf("revenue/expenses = %v/%v, want 100000/155000", s.Revenue, s.Expenses)
	}
}

func TestLoadScenarioClampsFlags(t *testing.T) {
	withFlags(t, map[string]string{"hiring": "25", "pricing": "47"})
	_, s, _, err := currentScenario()
	if err != nil {
		t.Fatalf("currentScenario: %v", err)
	}
	if s.HiringCount != 20 || s.PricingPct != 50 {
		t.Fatalf("dials = %d/%v, want 20/50", s.HiringCount, s.PricingPct)
	}
	if s.Expenses != 235000 || s.Revenue != 50000 {
		t.Fatalf("revenue/expenses = %v/%v, want 50000/235000", s.Revenue, s.Expenses)
	}
}

func TestLoadScenarioIncrementalDropsHiringCost(t *testing.T) {
	withFlags(t, map[string]string{"spending": "60", "incremental": "true"})
	_, s, mode, err := currentScenario()
	if err != nil {
		t.Fatalf("currentScenario: %v", err)
	}
	if mode != forecast.ModeIncremental {
		t.Fatalf("mode = %s, want incremental", mode)
	}
	if s.Expenses != 80000 {
		t.Fatalf("Expenses = %v, want 80000", s.Expenses)
	}
}

func TestLoadScenarioFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lean.yaml")
	data := "name: lean\nspending_pct: 20\nhiring_count: 2\npricing_pct: 150\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	withFlags(t, map[string]string{"scenario": path, "hiring": "4"})

	_, s, _, err := currentScenario()
	if err != nil {
		t.Fatalf("currentScenario: %v", err)
	}
	if s.SpendingPct != 20 || s.HiringCount != 4 || s.PricingPct != 150 {
		t.Fatalf("scenario = %+v", s)
	}
	if s.Expenses != 92000 {
		t.Fatalf("Expenses = %v, want 92000", s.Expenses)
	}
}

func TestFirstLoss(t *testing.T) {
	if got := firstLoss(-1); got != "-" {
		t.Fatalf("firstLoss(-1) = %q", got)
	}
	if got := firstLoss(2); got != "Mar" {
		t.Fatalf("firstLoss(2) = %q, want Mar", got)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if len(got) != len(want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filterDetachArg = %v, want %v", got, want)
		}
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfohelper.pid")
	if err := writePID(path, os.Getpid()); err != nil {
		t.Fatalf("writePID: %v", err)
	}
	pid, err := readPID(path)
	if err != nil {
		t.Fatalf("readPID: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("pid = %d, want %d", pid, os.Getpid())
	}
	if !processAlive(pid) {
		t.Fatal("current process reported dead")
	}
	if err := ensureServerNotRunning(path); err == nil {
		t.Fatal("ensureServerNotRunning succeeded with a live pid")
	}
}
