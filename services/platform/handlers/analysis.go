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
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/services/analysis"
	"github.com/fundlens/fundlens/services/platform/observability"
	"github.com/fundlens/fundlens/services/store"
)

// TranslateRequest carries the jargon-laden text to simplify.
type TranslateRequest struct {
	Text string `json:"text" binding:"required"`
}

// PitchDeckRequest describes the startup the deck is for.
type PitchDeckRequest struct {
	FocusAreas    []string `json:"focus_areas"`
	Stage         string   `json:"stage"`
	FundingNeeded string   `json:"funding_needed"`
}

// SentimentRequest names the news sources to refresh.
type SentimentRequest struct {
	Sources []string `json:"sources"`
}

// GetSentiment returns current sentiment snapshots and per-sector
// averages. Sources default to the full configured set; narrow with
// ?sources=techcrunch,reuters_vc.
func GetSentiment(tracker *analysis.SentimentTracker, metrics *observability.PlatformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		sources := splitParam(c.Query("sources"))

		start := time.Now()
		reports, err := tracker.Track(c.Request.Context(), sources)
		metrics.RecordLLMCall("sentiment", time.Since(start).Seconds(), err == nil)
		if err != nil {
			slog.Error("sentiment tracking failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sentiment analysis failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reports":          reports,
			"sector_sentiment": analysis.SectorSentiment(reports),
			"timeline":         tracker.History(),
		})
	}
}

// RefreshSentiment drops cached snapshots for the given sources and
// re-analyzes them.
func RefreshSentiment(tracker *analysis.SentimentTracker, metrics *observability.PlatformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SentimentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		tracker.Refresh(c.Request.Context(), req.Sources)

		start := time.Now()
		reports, err := tracker.Track(c.Request.Context(), req.Sources)
		metrics.RecordLLMCall("sentiment", time.Since(start).Seconds(), err == nil)
		if err != nil {
			slog.Error("sentiment refresh failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sentiment refresh failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"reports": reports})
	}
}

// Translate converts investment jargon into plain language.
func Translate(translator *analysis.Translator, metrics *observability.PlatformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TranslateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
			return
		}

		start := time.Now()
		translation, err := translator.Translate(c.Request.Context(), req.Text)
		metrics.RecordLLMCall("translation", time.Since(start).Seconds(), err == nil)
		if err != nil {
			slog.Error("translation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "translation failed"})
			return
		}

		c.JSON(http.StatusOK, translation)
	}
}

// PitchDeck generates content and design suggestions tuned to the
// stored investor corpus.
func PitchDeck(gen *analysis.PitchDeckGenerator, st *store.Store, metrics *observability.PlatformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PitchDeckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		investors, err := st.List(c.Request.Context())
		if err != nil {
			slog.Error("pitchdeck: listing investors failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investors"})
			return
		}

		start := time.Now()
		content, err := gen.ContentSuggestions(c.Request.Context(), investors, analysis.PitchDeckInputs{
			FocusAreas:    req.FocusAreas,
			Stage:         req.Stage,
			FundingNeeded: req.FundingNeeded,
		})
		if err != nil {
			metrics.RecordLLMCall("pitchdeck", time.Since(start).Seconds(), false)
			slog.Error("pitchdeck content failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		design, err := gen.DesignSuggestions(c.Request.Context(), content)
		metrics.RecordLLMCall("pitchdeck", time.Since(start).Seconds(), err == nil)
		if err != nil {
			slog.Error("pitchdeck design failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"content": content, "design": design})
	}
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
