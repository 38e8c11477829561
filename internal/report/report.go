// Package report builds exportable financial reports for a scenario.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
)

// Format is a report encoding.
type Format string

// Supported report formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag or config value onto a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want json or yaml)", s)
}

// Report is the exported snapshot of a scenario and its projections.
type Report struct {
	ID              string                 `json:"id" yaml:"id"`
	Timestamp       time.Time              `json:"timestamp" yaml:"timestamp"`
	Prompt          string                 `json:"prompt" yaml:"prompt"`
	Scenario        model.Scenario         `json:"scenario" yaml:"scenario"`
	NetIncome       float64                `json:"netIncome" yaml:"net_income"`
	Runway          string                 `json:"runway" yaml:"runway"`
	Recommendations []string               `json:"recommendations" yaml:"recommendations"`
	Flags           []model.Recommendation `json:"flags" yaml:"flags"`
	Summary         model.Summary          `json:"summary" yaml:"summary"`
	Breakdown       model.Breakdown        `json:"breakdown" yaml:"breakdown"`
	Forecast        []model.MonthlyPoint   `json:"forecast" yaml:"forecast"`
}

// Options controls report generation.
type Options struct {
	Prompt string
	// Delay is the simulated generation time.
	Delay time.Duration
	Now   func() time.Time
}

// Build assembles a report for s without waiting.
func Build(s model.Scenario, prompt string, now time.Time) Report {
	if prompt == "" {
		prompt = model.DefaultReportPrompt
	}
	return Report{
		ID:              uuid.NewString(),
		Timestamp:       now,
		Prompt:          prompt,
		Scenario:        s,
		NetIncome:       s.NetIncome(),
		Runway:          forecast.RunwayLabel(s),
		Recommendations: forecast.ReportRecommendations(s),
		Flags:           forecast.Recommendations(s),
		Summary:         forecast.Summarize(s),
		Breakdown:       forecast.Breakdown(s),
		Forecast:        forecast.ProjectMonths(s),
	}
}

// Generate validates s, waits for the configured delay, and builds the
// report. It returns early with ctx's error if ctx is cancelled.
func Generate(ctx context.Context, s model.Scenario, opts Options) (Report, error) {
	if err := forecast.Validate(s); err != nil {
		return Report{}, err
	}
	if opts.Delay > 0 {
		timer := time.NewTimer(opts.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Report{}, ctx.Err()
		case <-timer.C:
		}
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	return Build(s, opts.Prompt, now()), nil
}

// Encode renders r as indented JSON or YAML.
func Encode(r Report, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown report format %q", f)
}

// FileName returns the download name for a report created at t.
func FileName(t time.Time, f Format) string {
	ext := "json"
	if f == FormatYAML {
		ext = "yaml"
	}
	return fmt.Sprintf("financial-report-%s.%s", t.Format("2006-01-02"), ext)
}

// Write encodes r into dir and returns the written path.
func Write(dir string, r Report, f Format) (string, error) {
	data, err := Encode(r, f)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}
	path := filepath.Join(dir, FileName(r.Timestamp, f))
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // reports are meant to be shared
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Share copies the encoded report to the system clipboard.
func Share(r Report, f Format) error {
	data, err := Encode(r, f)
	if err != nil {
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not available on this system")
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("copying report: %w", err)
	}
	return nil
}
