// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/services/store"
)

// ListInvestors returns the full investor corpus ordered by name.
func ListInvestors(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		investors, err := st.List(c.Request.Context())
		if err != nil {
			slog.Error("list investors failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list investors"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"investors": investors, "count": len(investors)})
	}
}

// GetInvestor fetches one investor by numeric id.
func GetInvestor(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investor id"})
			return
		}

		inv, err := st.Get(c.Request.Context(), uint(id))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investor not found"})
			return
		}
		if err != nil {
			slog.Error("get investor failed", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get investor"})
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

// CreateInvestor upserts an investor record. Records are deduplicated
// by name, matching the scrape ingestion path.
func CreateInvestor(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inv store.Investor
		if err := c.ShouldBindJSON(&inv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if inv.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		if err := st.Upsert(c.Request.Context(), &inv); err != nil {
			slog.Error("create investor failed", "name", inv.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store investor"})
			return
		}
		c.JSON(http.StatusCreated, inv)
	}
}

// DeleteInvestor removes an investor by id.
func DeleteInvestor(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investor id"})
			return
		}

		err = st.Delete(c.Request.Context(), uint(id))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investor not found"})
			return
		}
		if err != nil {
			slog.Error("delete investor failed", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete investor"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
