// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/services/platform/observability"
	"github.com/fundlens/fundlens/services/scraper"
	"github.com/fundlens/fundlens/services/store"
)

// ScrapeInvestorsRequest drives a live investor discovery run.
type ScrapeInvestorsRequest struct {
	Terms    []string `json:"terms" binding:"required,min=1"`
	Location string   `json:"location"`
}

// ScrapeByNameRequest targets one investor by display name.
type ScrapeByNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// ScrapeInvestors discovers investors on the web and persists them.
func ScrapeInvestors(sc *scraper.Scraper, st *store.Store, metrics *observability.PlatformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScrapeInvestorsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		metrics.ScrapeStarted()
		defer metrics.ScrapeEnded()

		results, err := sc.SearchInvestors(c.Request.Context(), req.Terms, req.Location)
		metrics.RecordScrape("investors", err == nil)
		if err != nil {
			slog.Error("investor scrape failed", "terms", req.Terms, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		stored := 0
		for i := range results {
			if err := st.Upsert(c.Request.Context(), &results[i].Investor); err != nil {
				slog.Warn("scraped investor not stored", "name", results[i].Investor.Name, "error", err)
				continue
			}
			stored++
		}

		c.JSON(http.StatusOK, gin.H{
			"results": results,
			"found":   len(results),
			"stored":  stored,
		})
	}
}

// ScrapeNews fetches recent news items for one investor.
func ScrapeNews(sc *scraper.Scraper, metrics *observability.PlatformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScrapeByNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		metrics.ScrapeStarted()
		defer metrics.ScrapeEnded()

		news, err := sc.SearchNews(c.Request.Context(), req.Name)
		metrics.RecordScrape("news", err == nil)
		if err != nil {
			slog.Error("news scrape failed", "name", req.Name, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"news": news, "count": len(news)})
	}
}

// ScrapePortfolio fetches known portfolio companies for one investor.
func ScrapePortfolio(sc *scraper.Scraper, metrics *observability.PlatformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScrapeByNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		metrics.ScrapeStarted()
		defer metrics.ScrapeEnded()

		companies, err := sc.PortfolioCompanies(c.Request.Context(), req.Name)
		metrics.RecordScrape("portfolio", err == nil)
		if err != nil {
			slog.Error("portfolio scrape failed", "name", req.Name, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"companies": companies, "count": len(companies)})
	}
}
