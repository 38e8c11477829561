// Package server exposes the projection engine over an HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/report"
	"github.com/cfohelper/cfohelper/internal/usage"
)

// Config controls the API server.
type Config struct {
	Addr           string
	Mode           forecast.Mode
	ReportDelay    time.Duration
	ReportFormat   report.Format
	CacheTTL       time.Duration
	CacheBackend   string
	AllowedOrigins []string
	EventsBuffer   int
}

// ReportStore keeps encoded reports for later download.
type ReportStore interface {
	SaveReport(id, format string, body []byte, at time.Time) error
	LoadReport(id string) ([]byte, string, error)
}

// Service provides the HTTP API and the usage event feed.
type Service struct {
	cfg     Config
	meter   *usage.Meter
	reports ReportStore
	cache   Cache

	mu        sync.RWMutex
	startedAt time.Time
	events    []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service with the provided config. A nil cache disables
// forecast caching.
func New(cfg Config, meter *usage.Meter, reports ReportStore, cache Cache) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Mode == "" {
		cfg.Mode = forecast.ModePure
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = report.FormatJSON
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "memory"
	}

	return &Service{
		cfg:       cfg,
		meter:     meter,
		reports:   reports,
		cache:     cache,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler builds the gin router wrapped in CORS handling.
func (s *Service) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(errorHandler())

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.GET("/status", s.handleStatus)
		api.POST("/scenario/derive", s.handleDerive)
		api.GET("/scenario/default", s.handleDefault)
		api.POST("/forecast", s.handleForecast)
		api.POST("/breakdown", s.handleBreakdown)
		api.POST("/recommendations", s.handleRecommendations)
		api.POST("/analysis", s.handleAnalysis)
		api.POST("/reports", s.handleReport)
		api.GET("/reports/:id", s.handleGetReport)
		api.POST("/compare", s.handleCompare)
		api.GET("/usage", s.handleUsage)
		api.GET("/events", s.handleEvents)
		api.GET("/stream", s.handleStream)
	}

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "no route for "+c.Request.URL.Path)
	})

	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("cfohelper serve: listening on %s", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func errorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		msg := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			msg = s
		}
		log.Printf("cfohelper serve: panic: %v", recovered)
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
		c.Abort()
	})
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeEngineError maps engine errors onto HTTP responses.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, forecast.ErrInvalidScenario):
		writeError(c, http.StatusBadRequest, "INVALID_SCENARIO", err.Error())
	case errors.Is(err, forecast.ErrUnknownDial):
		writeError(c, http.StatusBadRequest, "UNKNOWN_DIAL", err.Error())
	case errors.Is(err, model.ErrEmptyPrompt):
		writeError(c, http.StatusBadRequest, "EMPTY_PROMPT", err.Error())
	default:
		log.Printf("cfohelper serve: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// bindScenario decodes and validates a scenario body.
func bindScenario(c *gin.Context) (model.Scenario, bool) {
	var sc model.Scenario
	if err := c.ShouldBindJSON(&sc); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return sc, false
	}
	if err := forecast.Validate(sc); err != nil {
		writeEngineError(c, err)
		return sc, false
	}
	return sc, true
}

func (s *Service) publishEvent(ev model.UsageEvent) {
	counts, err := s.meter.Counts()
	if err != nil {
		log.Printf("cfohelper serve: reading usage counts: %v", err)
	}
	out := Event{
		ID:        ev.ID,
		Type:      string(ev.Kind),
		Timestamp: ev.Timestamp,
		Prompt:    ev.Prompt,
		NetIncome: ev.NetIncome,
		Counts:    counts,
	}

	s.mu.Lock()
	s.events = append(s.events, out)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- out:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	counts, _ := s.meter.Counts()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		Derivation:      string(s.cfg.Mode),
		CacheBackend:    s.cfg.CacheBackend,
		Counts:          counts,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
