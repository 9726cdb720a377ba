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
	"github.com/fundlens/fundlens/services/search"
)

// SearchInvestors runs a combined local + web search.
func SearchInvestors(engine *search.Engine, metrics *observability.PlatformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q search.Query
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := engine.Search(c.Request.Context(), q)
		if err != nil {
			metrics.RecordSearch(searchSource(q, nil), false)
			slog.Error("search failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}

		metrics.RecordSearch(searchSource(q, result), true)
		c.JSON(http.StatusOK, result)
	}
}

func searchSource(q search.Query, r *search.Result) string {
	if r != nil && r.FromCache {
		return "cache"
	}
	if q.IncludeWeb {
		return "combined"
	}
	return "local"
}
