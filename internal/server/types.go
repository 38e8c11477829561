package server

import (
	"time"

	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/usage"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// DeriveRequest is the body of POST /api/v1/scenario/derive.
type DeriveRequest struct {
	Dial     string          `json:"dial" binding:"required"`
	Value    *float64        `json:"value" binding:"required"`
	Scenario *model.Scenario `json:"scenario"`
	Mode     string          `json:"mode"`
}

// ForecastResponse is returned by POST /api/v1/forecast.
type ForecastResponse struct {
	Scenario model.Scenario       `json:"scenario"`
	Months   []model.MonthlyPoint `json:"months"`
	Summary  model.Summary        `json:"summary"`
}

// AnalysisRequest is the body of the analysis and report endpoints.
type AnalysisRequest struct {
	Scenario model.Scenario `json:"scenario"`
	Prompt   string         `json:"prompt"`
	Format   string         `json:"format"`
}

// AnalysisResponse is returned by POST /api/v1/analysis.
type AnalysisResponse struct {
	Event           model.UsageEvent       `json:"event"`
	Scenario        model.Scenario         `json:"scenario"`
	Months          []model.MonthlyPoint   `json:"months"`
	Breakdown       model.Breakdown        `json:"breakdown"`
	Summary         model.Summary          `json:"summary"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

// CompareRequest is the body of POST /api/v1/compare.
type CompareRequest struct {
	Scenarios []NamedScenarioRequest `json:"scenarios" binding:"required,min=1"`
}

// NamedScenarioRequest is one entry of a comparison.
type NamedScenarioRequest struct {
	Name     string         `json:"name"`
	Scenario model.Scenario `json:"scenario"`
}

// UsageResponse is returned by GET /api/v1/usage.
type UsageResponse struct {
	Counts model.UsageCounts `json:"counts"`
	Bill   usage.Bill        `json:"bill"`
}

// Event is emitted whenever usage is recorded.
type Event struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Prompt    string            `json:"prompt,omitempty"`
	NetIncome float64           `json:"net_income"`
	Counts    model.UsageCounts `json:"counts"`
}

// Status is served at /api/v1/status.
type Status struct {
	StartedAt       time.Time         `json:"started_at"`
	Addr            string            `json:"addr"`
	Derivation      string            `json:"derivation"`
	CacheBackend    string            `json:"cache_backend"`
	Counts          model.UsageCounts `json:"counts"`
	EventCount      int               `json:"event_count"`
	SubscriberCount int               `json:"subscriber_count"`
}
