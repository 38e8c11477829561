package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/pipeline"
	"github.com/cfohelper/cfohelper/internal/report"
	"github.com/cfohelper/cfohelper/internal/store"
)

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleDefault(c *gin.Context) {
	c.JSON(http.StatusOK, forecast.DefaultScenario())
}

// handleDerive handles POST /api/v1/scenario/derive.
func (s *Service) handleDerive(c *gin.Context) {
	var req DeriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	dial, err := model.ParseDial(req.Dial)
	if err != nil {
		writeEngineError(c, errors.Join(forecast.ErrUnknownDial, err))
		return
	}

	mode := s.cfg.Mode
	if req.Mode != "" {
		if mode, err = forecast.ParseMode(req.Mode); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_MODE", err.Error())
			return
		}
	}

	current := forecast.DefaultScenario()
	if req.Scenario != nil {
		if err := forecast.Validate(*req.Scenario); err != nil {
			writeEngineError(c, err)
			return
		}
		current = *req.Scenario
	}

	next, err := forecast.DeriveScenario(dial, *req.Value, current, mode)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// handleForecast handles POST /api/v1/forecast. Responses are cached by
// scenario fingerprint.
func (s *Service) handleForecast(c *gin.Context) {
	sc, ok := bindScenario(c)
	if !ok {
		return
	}

	var key string
	if s.cache != nil {
		if k, err := Fingerprint("forecast", sc); err == nil {
			key = k
			if cached, hit := s.cache.Get(c.Request.Context(), key); hit {
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
				return
			}
		}
	}

	body, err := json.Marshal(ForecastResponse{
		Scenario: sc,
		Months:   forecast.ProjectMonths(sc),
		Summary:  forecast.Summarize(sc),
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}

	if key != "" {
		if err := s.cache.Set(c.Request.Context(), key, string(body), s.cfg.CacheTTL); err != nil {
			log.Printf("cfohelper serve: caching forecast: %v", err)
		}
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *Service) handleBreakdown(c *gin.Context) {
	sc, ok := bindScenario(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, forecast.Breakdown(sc))
}

func (s *Service) handleRecommendations(c *gin.Context) {
	sc, ok := bindScenario(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"netIncome": sc.NetIncome(),
		"flags":     forecast.Recommendations(sc),
	})
}

// handleAnalysis handles POST /api/v1/analysis and counts one scenario.
func (s *Service) handleAnalysis(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := forecast.Validate(req.Scenario); err != nil {
		writeEngineError(c, err)
		return
	}

	ev, err := s.meter.RecordScenario(req.Prompt, req.Scenario)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	s.publishEvent(ev)

	sc := req.Scenario
	c.JSON(http.StatusOK, AnalysisResponse{
		Event:           ev,
		Scenario:        sc,
		Months:          forecast.ProjectMonths(sc),
		Breakdown:       forecast.Breakdown(sc),
		Summary:         forecast.Summarize(sc),
		Recommendations: forecast.Recommendations(sc),
	})
}

// handleReport handles POST /api/v1/reports. Generation waits for the
// configured delay and is abandoned if the client goes away.
func (s *Service) handleReport(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	format := s.cfg.ReportFormat
	if req.Format != "" {
		f, err := report.ParseFormat(req.Format)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
			return
		}
		format = f
	}

	r, err := report.Generate(c.Request.Context(), req.Scenario, report.Options{
		Prompt: req.Prompt,
		Delay:  s.cfg.ReportDelay,
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}

	body, err := report.Encode(r, format)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if err := s.reports.SaveReport(r.ID, string(format), body, r.Timestamp); err != nil {
		writeEngineError(c, err)
		return
	}

	ev, err := s.meter.RecordReport(r.Prompt, r.Scenario)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	s.publishEvent(ev)

	c.Header("Location", "/api/v1/reports/"+r.ID)
	c.Header("Content-Disposition", `attachment; filename="`+report.FileName(r.Timestamp, format)+`"`)
	c.Data(http.StatusCreated, contentType(format), body)
}

// handleGetReport handles GET /api/v1/reports/:id.
func (s *Service) handleGetReport(c *gin.Context) {
	body, format, err := s.reports.LoadReport(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "REPORT_NOT_FOUND", "no report with id "+c.Param("id"))
		return
	}
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType(report.Format(format)), body)
}

func contentType(f report.Format) string {
	if f == report.FormatYAML {
		return "application/yaml; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// handleCompare handles POST /api/v1/compare.
func (s *Service) handleCompare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	scenarios := make([]model.NamedScenario, 0, len(req.Scenarios))
	for _, ns := range req.Scenarios {
		if err := forecast.Validate(ns.Scenario); err != nil {
			writeEngineError(c, err)
			return
		}
		scenarios = append(scenarios, model.NamedScenario{Name: ns.Name, Scenario: ns.Scenario})
	}
	c.JSON(http.StatusOK, gin.H{"ranking": pipeline.Compare(scenarios)})
}

func (s *Service) handleUsage(c *gin.Context) {
	bill, err := s.meter.Bill()
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, UsageResponse{
		Counts: model.UsageCounts{Scenarios: bill.Scenarios, Reports: bill.Reports},
		Bill:   bill,
	})
}

func (s *Service) handleEvents(c *gin.Context) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, events)
}

// handleStream pushes usage events as server-sent events.
func (s *Service) handleStream(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	status := s.snapshotStatus()
	writeSSE(w, Event{Type: "snapshot", Timestamp: time.Now(), Counts: status.Counts})
	w.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			w.Flush()
		}
	}
}
