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

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/services/match"
	"github.com/fundlens/fundlens/services/store"
)

// MatchRequest carries the startup profile to rank investors against.
type MatchRequest struct {
	Profile match.StartupProfile `json:"profile" binding:"required"`
	TopN    int                  `json:"top_n"`
}

// ExplainRequest asks for the match breakdown of one investor.
type ExplainRequest struct {
	InvestorID uint                 `json:"investor_id" binding:"required"`
	Profile    match.StartupProfile `json:"profile" binding:"required"`
}

// ScoredMatch is a match with its human-readable explanation inline.
type ScoredMatch struct {
	match.Match
	Explanation match.Explanation `json:"explanation"`
}

// MatchInvestors ranks the stored investors against a startup profile.
func MatchInvestors(st *store.Store, matcher *match.Matcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		investors, err := st.List(c.Request.Context())
		if err != nil {
			slog.Error("match: listing investors failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investors"})
			return
		}

		matches := matcher.Match(investors, req.Profile, req.TopN)
		scored := make([]ScoredMatch, 0, len(matches))
		for _, mt := range matches {
			scored = append(scored, ScoredMatch{
				Match:       mt,
				Explanation: matcher.Explain(mt, req.Profile),
			})
		}

		c.JSON(http.StatusOK, gin.H{"matches": scored, "count": len(scored)})
	}
}

// ExplainMatch scores a single investor against a profile and returns
// the full breakdown.
func ExplainMatch(st *store.Store, matcher *match.Matcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExplainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		inv, err := st.Get(c.Request.Context(), req.InvestorID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investor not found"})
			return
		}
		if err != nil {
			slog.Error("explain: get investor failed", "id", req.InvestorID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investor"})
			return
		}

		matches := matcher.Match([]store.Investor{*inv}, req.Profile, 1)
		if len(matches) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scoring produced no result"})
			return
		}

		c.JSON(http.StatusOK, ScoredMatch{
			Match:       matches[0],
			Explanation: matcher.Explain(matches[0], req.Profile),
		})
	}
}
