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

	"github.com/fundlens/fundlens/services/store"
)

// CompareRequest names the investors to compare side by side.
type CompareRequest struct {
	Names []string `json:"names" binding:"required,min=2,max=4"`
}

// Dashboard returns corpus-wide aggregate metrics.
func Dashboard(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := st.Dashboard(c.Request.Context())
		if err != nil {
			slog.Error("dashboard aggregation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate metrics"})
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

// CompareInvestors builds a side-by-side comparison of two to four
// investors, resolved by name.
func CompareInvestors(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cmp, err := st.Compare(c.Request.Context(), req.Names)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cmp)
	}
}
