// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fundlens/fundlens/services/alerts"
	"github.com/fundlens/fundlens/services/analysis"
	"github.com/fundlens/fundlens/services/match"
	"github.com/fundlens/fundlens/services/platform/handlers"
	"github.com/fundlens/fundlens/services/platform/middleware"
	"github.com/fundlens/fundlens/services/platform/observability"
	"github.com/fundlens/fundlens/services/scraper"
	"github.com/fundlens/fundlens/services/search"
	"github.com/fundlens/fundlens/services/store"
)

// Deps bundles everything the route handlers need.
type Deps struct {
	Store     *store.Store
	Engine    *search.Engine
	Matcher   *match.Matcher
	Scraper   *scraper.Scraper
	Sentiment *analysis.SentimentTracker
	Translate *analysis.Translator
	PitchDeck *analysis.PitchDeckGenerator
	Alerts    *alerts.Service
	Renderer  *alerts.Renderer
	Mailer    alerts.Mailer
	Metrics   *observability.PlatformMetrics

	// APIKey, when non-empty, is required on every /v1 request.
	APIKey string
}

// SetupRoutes registers the full platform API on the router.
func SetupRoutes(router *gin.Engine, d Deps) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.Use(middleware.APIKeyAuth(d.APIKey))
	{
		v1.POST("/search", handlers.SearchInvestors(d.Engine, d.Metrics))

		v1.GET("/investors", handlers.ListInvestors(d.Store))
		v1.GET("/investors/:id", handlers.GetInvestor(d.Store))
		v1.POST("/investors", handlers.CreateInvestor(d.Store))
		v1.DELETE("/investors/:id", handlers.DeleteInvestor(d.Store))

		v1.POST("/match", handlers.MatchInvestors(d.Store, d.Matcher))
		v1.POST("/match/explain", handlers.ExplainMatch(d.Store, d.Matcher))

		v1.GET("/dashboard", handlers.Dashboard(d.Store))
		v1.POST("/compare", handlers.CompareInvestors(d.Store))

		v1.POST("/pitchdeck", handlers.PitchDeck(d.PitchDeck, d.Store, d.Metrics))
		v1.GET("/sentiment", handlers.GetSentiment(d.Sentiment, d.Metrics))
		v1.POST("/sentiment/refresh", handlers.RefreshSentiment(d.Sentiment, d.Metrics))
		v1.POST("/translate", handlers.Translate(d.Translate, d.Metrics))

		v1.POST("/scrape/investors", handlers.ScrapeInvestors(d.Scraper, d.Store, d.Metrics))
		v1.POST("/scrape/news", handlers.ScrapeNews(d.Scraper, d.Metrics))
		v1.POST("/scrape/portfolio", handlers.ScrapePortfolio(d.Scraper, d.Metrics))

		alertGroup := v1.Group("/alerts")
		{
			alertGroup.POST("", handlers.CreateAlert(d.Alerts))
			alertGroup.GET("/:email", handlers.GetUserAlerts(d.Alerts))
			alertGroup.PATCH("/:id", handlers.UpdateAlert(d.Alerts))
			alertGroup.DELETE("/:id", handlers.DeleteAlert(d.Alerts))
			alertGroup.POST("/:id/test", handlers.TestAlert(d.Alerts, d.Renderer, d.Mailer))
			alertGroup.PUT("/users/:email/preferences", handlers.UpdatePreferences(d.Alerts))
		}
	}
}
