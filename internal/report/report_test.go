package report

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
)

var fixedNow = time.Date(2025, 6, 9, 15, 4, 5, 0, time.UTC)

func TestBuild(t *testing.T) {
	r := Build(forecast.DefaultScenario(), "", fixedNow)
	if r.Prompt != model.DefaultReportPrompt {
		t.Fatalf("Prompt = %q", r.Prompt)
	}
	if r.NetIncome != -55000 {
		t.Fatalf("NetIncome = %v, want -55000", r.NetIncome)
	}
	if r.Runway != "8-12 months" {
		t.Fatalf("Runway = %q", r.Runway)
	}
	if len(r.Recommendations) != 3 {
		t.Fatalf("len(Recommendations) = %d, want 3", len(r.Recommendations))
	}
	if len(r.Forecast) != 12 {
		t.Fatalf("len(Forecast) = %d, want 12", len(r.Forecast))
	}
	if r.ID == "" {
		t.Fatal("empty ID")
	}
}

func TestGenerateWaitsAndCancels(t *testing.T) {
	s := forecast.DefaultScenario()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, s, Options{Delay: time.Hour}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	start := time.Now()
	r, err := Generate(context.Background(), s, Options{Delay: 20 * time.Millisecond, Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("Generate returned before the delay elapsed")
	}
	if !r.Timestamp.Equal(fixedNow) {
		t.Fatalf("Timestamp = %v", r.Timestamp)
	}
}

func TestGenerateRejectsInvalid(t *testing.T) {
	_, err := Generate(context.Background(), model.Scenario{PricingPct: 10}, Options{})
	if !errors.Is(err, forecast.ErrInvalidScenario) {
		t.Fatalf("err = %v, want ErrInvalidScenario", err)
	}
}

func TestEncodeJSON(t *testing.T) {
	r := Build(forecast.DefaultScenario(), "runway check", fixedNow)
	data, err := Encode(r, FormatJSON)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"timestamp\": ") {
		t.Fatalf("JSON not indented by two spaces:\n%s", data)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"timestamp", "scenario", "netIncome", "runway", "recommendations"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestEncodeYAML(t *testing.T) {
	r := Build(forecast.Derive(0, 0, 150), "", fixedNow)
	data, err := Encode(r, FormatYAML)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded struct {
		Runway   string `yaml:"runway"`
		Scenario struct {
			PricingPct float64 `yaml:"pricing_pct"`
		} `yaml:"scenario"`
	}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if decoded.Runway != "Infinite" || decoded.Scenario.PricingPct != 150 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestFileNameAndWrite(t *testing.T) {
	if got := FileName(fixedNow, FormatJSON); got != "financial-report-2025-06-09.json" {
		t.Fatalf("FileName = %q", got)
	}
	if got := FileName(fixedNow, FormatYAML); got != "financial-report-2025-06-09.yaml" {
		t.Fatalf("FileName = %q", got)
	}

	dir := filepath.Join(t.TempDir(), "out")
	path, err := Write(dir, Build(forecast.DefaultScenario(), "", fixedNow), FormatJSON)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "financial-report-2025-06-09.json" {
		t.Fatalf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, _ := ParseFormat("yml"); f != FormatYAML {
		t.Fatalf("ParseFormat(yml) = %q", f)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("ParseFormat(xml) succeeded")
	}
}
