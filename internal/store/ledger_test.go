package store

import (
	"errors"
	"testing"
	"time"

	"github.com/cfohelper/cfohelper/internal/model"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordEventCounts(t *testing.T) {
	l := openTestLedger(t)
	s := model.Scenario{SpendingPct: 50, HiringCount: 10, PricingPct: 100, Revenue: 100000, Expenses: 155000}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := l.RecordEvent(model.KindAnalysis, "runway?", s, now); err != nil {
			t.Fatalf("RecordEvent: %v", err)
		}
	}
	ev, err := l.RecordEvent(model.KindReport, model.DefaultReportPrompt, s, now)
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if ev.ID != 4 {
		t.Fatalf("ID = %d, want 4", ev.ID)
	}
	if ev.NetIncome != -55000 {
		t.Fatalf("NetIncome = %v, want -55000", ev.NetIncome)
	}

	counts, err := l.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Scenarios != 3 || counts.Reports != 1 {
		t.Fatalf("Counts = %+v, want 3 scenarios and 1 report", counts)
	}

	recent, err := l.RecentEvents(2)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(recent) != 2 || recent[0].Kind != model.KindReport {
		t.Fatalf("RecentEvents = %+v", recent)
	}
	if !recent[0].Timestamp.Equal(now) {
		t.Fatalf("Timestamp = %v, want %v", recent[0].Timestamp, now)
	}
}

func TestReportsAndReset(t *testing.T) {
	l := openTestLedger(t)
	now := time.Now()
	if err := l.SaveReport("abc", "json", []byte(`{"ok":true}`), now); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	body, format, err := l.LoadReport("abc")
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if string(body) != `{"ok":true}` || format != "json" {
		t.Fatalf("LoadReport = %q, %q", body, format)
	}

	if err := l.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, _, err := l.LoadReport("abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadReport after reset err = %v, want ErrNotFound", err)
	}
	counts, _ := l.Counts()
	if counts != (model.UsageCounts{}) {
		t.Fatalf("Counts after reset = %+v", counts)
	}
}

func TestSeparateLedgersAreIsolated(t *testing.T) {
	a := openTestLedger(t)
	b := openTestLedger(t)
	if _, err := a.RecordEvent(model.KindAnalysis, "x", model.Scenario{}, time.Now()); err != nil {
		t.Fatal(err)
	}
	counts, err := b.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if counts.Scenarios != 0 {
		t.Fatalf("second ledger saw %d scenarios", counts.Scenarios)
	}
}
