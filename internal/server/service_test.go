package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/store"
	"github.com/cfohelper/cfohelper/internal/usage"
)

func newTestService(t *testing.T, cfg Config) (*Service, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ledger, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { _ = ledger.Close() })

	s := New(cfg, usage.NewMeter(ledger, config.BillingConfig{}), ledger, NewMemoryCache())
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	_, h := newTestService(t, Config{})
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestDerive(t *testing.T) {
	_, h := newTestService(t, Config{})
	rec := do(t, h, http.MethodPost, "/api/v1/scenario/derive", map[string]any{
		"dial":  "hiring",
		"value": 4,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[model.Scenario](t, rec)
	if got != forecast.Derive(50, 4, 100) {
		t.Fatalf("scenario = %+v", got)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/scenario/derive", map[string]any{"dial": "bonus", "value": 4})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown dial status = %d", rec.Code)
	}
	if e := decode[ErrorResponse](t, rec); e.Error.Code != "UNKNOWN_DIAL" {
		t.Fatalf("code = %q", e.Error.Code)
	}
}

func TestDeriveRejectsInvalidScenario(t *testing.T) {
	_, h := newTestService(t, Config{})
	rec := do(t, h, http.MethodPost, "/api/v1/scenario/derive", map[string]any{
		"dial":  "hiring",
		"value": 2,
		"mode":  "incremental",
		"scenario": model.Scenario{
			SpendingPct: 500, HiringCount: 3, PricingPct: 100,
			Revenue: 100000, Expenses: -900000,
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if e := decode[ErrorResponse](t, rec); e.Error.Code != "INVALID_SCENARIO" {
		t.Fatalf("code = %q", e.Error.Code)
	}
}

func TestDeriveIncrementalMode(t *testing.T) {
	_, h := newTestService(t, Config{})
	start := forecast.DefaultScenario()
	rec := do(t, h, http.MethodPost, "/api/v1/scenario/derive", map[string]any{
		"dial":     "spending",
		"value":    50,
		"scenario": start,
		"mode":     "incremental",
	})
	got := decode[model.Scenario](t, rec)
	if got.Expenses != 75000 {
		t.Fatalf("Expenses = %v, want 75000", got.Expenses)
	}
}

func TestForecastCaches(t *testing.T) {
	_, h := newTestService(t, Config{CacheTTL: time.Minute})
	sc := forecast.DefaultScenario()

	first := do(t, h, http.MethodPost, "/api/v1/forecast", sc)
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", first.Code, first.Body.String())
	}
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first X-Cache = %q", first.Header().Get("X-Cache"))
	}
	resp := decode[ForecastResponse](t, first)
	if len(resp.Months) != 12 || resp.Months[3].Revenue != 126471 {
		t.Fatalf("months = %+v", resp.Months)
	}

	second := do(t, h, http.MethodPost, "/api/v1/forecast", sc)
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second X-Cache = %q", second.Header().Get("X-Cache"))
	}
	if second.Body.String() != first.Body.String() {
		t.Fatal("cached body differs")
	}
}

func TestForecastRejectsInvalidScenario(t *testing.T) {
	_, h := newTestService(t, Config{})
	rec := do(t, h, http.MethodPost, "/api/v1/forecast", model.Scenario{PricingPct: 20})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if e := decode[ErrorResponse](t, rec); e.Error.Code != "INVALID_SCENARIO" {
		t.Fatalf("code = %q", e.Error.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/forecast", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", rec.Code)
	}
}

func TestRecommendations(t *testing.T) {
	_, h := newTestService(t, Config{})
	rec := do(t, h, http.MethodPost, "/api/v1/recommendations", forecast.Derive(100, 18, 70))
	var body struct {
		Flags []model.Recommendation `json:"flags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Flags) != 3 || body.Flags[0].Code != model.FlagCashFlowWarning {
		t.Fatalf("flags = %+v", body.Flags)
	}
}

func TestAnalysisAndReportMeterUsage(t *testing.T) {
	s, h := newTestService(t, Config{})
	sc := forecast.DefaultScenario()

	rec := do(t, h, http.MethodPost, "/api/v1/analysis", AnalysisRequest{Scenario: sc})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty prompt status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/analysis", AnalysisRequest{Scenario: sc, Prompt: "How long is our runway?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("analysis status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/v1/reports", AnalysisRequest{Scenario: sc, Format: "yaml"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("report status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/yaml") {
		t.Fatalf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	loc := rec.Header().Get("Location")
	got := do(t, h, http.MethodGet, loc, nil)
	if got.Code != http.StatusOK || got.Body.String() != rec.Body.String() {
		t.Fatalf("GET %s = %d", loc, got.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/usage", nil)
	u := decode[UsageResponse](t, rec)
	if u.Counts.Scenarios != 1 || u.Counts.Reports != 1 {
		t.Fatalf("counts = %+v", u.Counts)
	}
	if u.Bill.Total.String() != "0.35" {
		t.Fatalf("bill total = %s, want 0.35", u.Bill.Total)
	}

	events := decode[[]Event](t, do(t, h, http.MethodGet, "/api/v1/events", nil))
	if len(events) != 2 || events[1].Type != "report" || events[1].Counts.Reports != 1 {
		t.Fatalf("events = %+v", events)
	}
	if st := s.snapshotStatus(); st.EventCount != 2 {
		t.Fatalf("EventCount = %d", st.EventCount)
	}
}

func TestReportNotFound(t *testing.T) {
	_, h := newTestService(t, Config{})
	rec := do(t, h, http.MethodGet, "/api/v1/reports/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCompare(t *testing.T) {
	_, h := newTestService(t, Config{})
	rec := do(t, h, http.MethodPost, "/api/v1/compare", CompareRequest{Scenarios: []NamedScenarioRequest{
		{Name: "default", Scenario: forecast.DefaultScenario()},
		{Name: "premium", Scenario: forecast.Derive(0, 0, 200)},
	}})
	var body struct {
		Ranking []model.ComparisonRow `json:"ranking"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Ranking) != 2 || body.Ranking[0].Name != "premium" {
		t.Fatalf("ranking = %+v", body.Ranking)
	}
}

func TestNoRoute(t *testing.T) {
	_, h := newTestService(t, Config{})
	rec := do(t, h, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s, _ := newTestService(t, Config{EventsBuffer: 2})

	s.publishEvent(model.UsageEvent{ID: 1, Kind: model.KindAnalysis})
	s.publishEvent(model.UsageEvent{ID: 2, Kind: model.KindAnalysis})
	s.publishEvent(model.UsageEvent{ID: 3, Kind: model.KindReport})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expired entry returned")
	}
}

func TestFingerprintStable(t *testing.T) {
	a, err := Fingerprint("forecast", forecast.DefaultScenario())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Fingerprint("forecast", forecast.DefaultScenario())
	c, _ := Fingerprint("forecast", forecast.Derive(50, 11, 100))
	if a != b {
		t.Fatalf("fingerprint not stable: %s vs %s", a, b)
	}
	if a == c {
		t.Fatal("different scenarios share a fingerprint")
	}
}

// readEvent reads SSE lines until an "event:" line and returns its name.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), "event: "); ok {
			return name
		}
	}
}

func TestStreamDeliversUsageEvents(t *testing.T) {
	s, h := newTestService(t, Config{})
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	if name := readEvent(t, r); name != "snapshot" {
		t.Fatalf("first event = %q, want snapshot", name)
	}
	if n := s.snapshotStatus().SubscriberCount; n != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", n)
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(AnalysisRequest{
		Scenario: forecast.DefaultScenario(),
		Prompt:   "Can we hire two more engineers?",
	}); err != nil {
		t.Fatal(err)
	}
	post, err := http.Post(srv.URL+"/api/v1/analysis", "application/json", &body)
	if err != nil {
		t.Fatalf("POST analysis: %v", err)
	}
	_ = post.Body.Close()
	if post.StatusCode != http.StatusOK {
		t.Fatalf("analysis status = %d", post.StatusCode)
	}

	if name := readEvent(t, r); name != "analysis" {
		t.Fatalf("event = %q, want analysis", name)
	}
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	var ev Event
	if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &ev); err != nil {
		t.Fatalf("decoding %q: %v", line, err)
	}
	if ev.Counts.Scenarios != 1 || ev.Prompt != "Can we hire two more engineers?" {
		t.Fatalf("event = %+v", ev)
	}

	cancel()
	deadline := time.Now().Add(3 * time.Second)
	for s.snapshotStatus().SubscriberCount != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber not removed after client disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
