package model

import (
	"errors"
	"strings"
	"time"
)

// AnalysisKind distinguishes a free-form analysis from a report request.
type AnalysisKind string

// Analysis kinds.
const (
	KindAnalysis AnalysisKind = "analysis"
	KindReport   AnalysisKind = "report"
)

// DefaultReportPrompt is used when a report is requested without a prompt.
const DefaultReportPrompt = "Generate comprehensive financial report"

// ErrEmptyPrompt is returned when an analysis is requested without a prompt.
var ErrEmptyPrompt = errors.New("analysis prompt is empty")

// Analysis is a request to analyze or report on a scenario.
type Analysis struct {
	Scenario  Scenario     `json:"scenario"`
	Prompt    string       `json:"prompt"`
	Kind      AnalysisKind `json:"kind"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewAnalysis builds an analysis request, applying the report default prompt.
func NewAnalysis(s Scenario, prompt string, kind AnalysisKind, now time.Time) (Analysis, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		if kind != KindReport {
			return Analysis{}, ErrEmptyPrompt
		}
		prompt = DefaultReportPrompt
	}
	return Analysis{Scenario: s, Prompt: prompt, Kind: kind, Timestamp: now}, nil
}

// UsageCounts are the process-local usage counters.
type UsageCounts struct {
	Scenarios int `json:"scenarios"`
	Reports   int `json:"reports"`
}

// UsageEvent is one recorded usage entry.
type UsageEvent struct {
	ID        int64        `json:"id"`
	Kind      AnalysisKind `json:"kind"`
	Prompt    string       `json:"prompt,omitempty"`
	NetIncome float64      `json:"netIncome"`
	Timestamp time.Time    `json:"timestamp"`
}
