// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package platform assembles the FundLens HTTP service.
//
// The platform wires together the investor store, the result cache, the
// web scraper, the search engine, the matcher, the analysis tools, and
// the alert scheduler, and exposes them over a Gin API. Construction
// happens once in New; Run starts the server and the background alert
// scheduler, and tears both down when the server stops.
package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/services/alerts"
	"github.com/fundlens/fundlens/services/analysis"
	"github.com/fundlens/fundlens/services/cache"
	"github.com/fundlens/fundlens/services/llm"
	"github.com/fundlens/fundlens/services/match"
	"github.com/fundlens/fundlens/services/platform/conf"
	"github.com/fundlens/fundlens/services/platform/observability"
	"github.com/fundlens/fundlens/services/platform/routes"
	"github.com/fundlens/fundlens/services/scraper"
	"github.com/fundlens/fundlens/services/search"
	"github.com/fundlens/fundlens/services/store"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the platform lifecycle.
//
// Run blocks until the HTTP server stops. Router exposes the configured
// Gin engine for integration tests. Implementations are safe for
// concurrent use after construction; Run is called at most once.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
type service struct {
	config    conf.Config
	router    *gin.Engine
	store     *store.Store
	cache     *cache.Cache
	llmClient llm.LLMClient
	scheduler *alerts.Scheduler
}

// =============================================================================
// Constructor
// =============================================================================

// New builds a ready-to-run platform service from the configuration.
//
// Initialization order: metrics, store, cache, LLM client, then the
// domain services and the router. The cache is optional; when it cannot
// be opened the platform runs without one. Store and LLM failures are
// fatal. On a fatal error any components opened so far are released
// before returning.
func New(cfg conf.Config) (Service, error) {
	s := &service{config: applyConfigDefaults(cfg)}

	observability.InitMetrics()
	metrics := observability.DefaultMetrics

	st, err := store.Open(store.Config{
		DSN:        s.config.Data.DatabaseURL,
		PGHost:     s.config.Data.PGHost,
		PGPort:     s.config.Data.PGPort,
		PGUser:     s.config.Data.PGUser,
		PGPassword: s.config.Data.PGPassword,
		PGDatabase: s.config.Data.PGDatabase,
		LocalPath:  s.config.Data.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("open investor store: %w", err)
	}
	s.store = st

	s.initCache()

	s.llmClient, err = s.buildLLMClient()
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("initialize LLM client: %w", err)
	}

	sc := scraper.New(scraper.Config{})
	engine := search.New(s.store, sc, s.cache)
	matcher := match.New()
	tracker := analysis.NewSentimentTracker(s.llmClient, s.cache)
	translator := analysis.NewTranslator(s.llmClient, s.cache)
	pitchdeck := analysis.NewPitchDeckGenerator(s.llmClient)

	alertSvc := alerts.New(s.store)
	renderer := alerts.NewRenderer(s.llmClient, "")
	mailer := s.buildMailer()

	schedCfg := alerts.DefaultSchedulerConfig()
	schedCfg.Interval = s.config.Alerts.Interval
	schedCfg.AuditLogPath = s.config.Alerts.AuditLogPath
	schedCfg.OnCycle = func(r alerts.CycleResult) {
		metrics.RecordAlertCycle(r.EmailsSent, r.Failed)
	}
	s.scheduler, err = alerts.NewScheduler(alertSvc, renderer, mailer, schedCfg)
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("initialize alert scheduler: %w", err)
	}

	gin.SetMode(s.config.App.GinMode)
	s.router = gin.Default()
	routes.SetupRoutes(s.router, routes.Deps{
		Store:     s.store,
		Engine:    engine,
		Matcher:   matcher,
		Scraper:   sc,
		Sentiment: tracker,
		Translate: translator,
		PitchDeck: pitchdeck,
		Alerts:    alertSvc,
		Renderer:  renderer,
		Mailer:    mailer,
		Metrics:   metrics,
		APIKey:    s.config.App.APIKey,
	})

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the alert scheduler and the HTTP server. It blocks until
// the server stops, then releases all held resources.
func (s *service) Run() error {
	defer s.cleanup()

	if err := s.scheduler.Start(context.Background()); err != nil {
		return fmt.Errorf("start alert scheduler: %w", err)
	}

	addr := fmt.Sprintf(":%d", s.config.App.Port)
	slog.Info("Starting platform server", "port", s.config.App.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values. conf.Load
// already defaults everything it reads; this covers configs built by
// hand in tests.
func applyConfigDefaults(cfg conf.Config) conf.Config {
	if cfg.App.Port == 0 {
		cfg.App.Port = 8090
	}
	if cfg.App.GinMode == "" {
		cfg.App.GinMode = gin.ReleaseMode
	}
	if cfg.LLM.Backend == "" {
		cfg.LLM.Backend = "openai"
	}
	if cfg.Alerts.Interval == 0 {
		cfg.Alerts.Interval = alerts.DefaultSchedulerConfig().Interval
	}
	return cfg
}

// initCache opens the result cache. A cache failure is not fatal; the
// platform degrades to uncached operation.
func (s *service) initCache() {
	cacheCfg := cache.InMemoryConfig()
	if dir := s.config.Data.CacheDir; dir != "" {
		cacheCfg = cache.DefaultConfig(dir)
	}

	c, err := cache.Open(cacheCfg)
	if err != nil {
		slog.Warn("cache initialization failed, running without cache", "error", err)
		return
	}
	s.cache = c
}

// buildLLMClient creates the configured language-model backend.
func (s *service) buildLLMClient() (llm.LLMClient, error) {
	return llm.New(s.config.LLM.Backend)
}

// buildMailer selects SMTP delivery when a host is configured, and the
// logging-only mailer otherwise.
func (s *service) buildMailer() alerts.Mailer {
	if s.config.SMTP.Host == "" {
		slog.Info("SMTP not configured, alert emails will be logged only")
		return alerts.NopMailer{}
	}

	mailer, err := alerts.NewSMTPMailer(alerts.SMTPConfig{
		Host:     s.config.SMTP.Host,
		Port:     s.config.SMTP.Port,
		Username: s.config.SMTP.Username,
		Password: s.config.SMTP.Password,
		From:     s.config.SMTP.From,
	})
	if err != nil {
		slog.Warn("SMTP mailer initialization failed, alert emails will be logged only", "error", err)
		return alerts.NopMailer{}
	}
	return mailer
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.scheduler != nil {
		if err := s.scheduler.Stop(); err != nil {
			slog.Warn("alert scheduler stop error", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Warn("cache close error", "error", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Warn("store close error", "error", err)
		}
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
