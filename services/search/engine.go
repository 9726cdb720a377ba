// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package search combines the local investor store with live web
// scraping into one query surface.
//
// A query runs the database filter and the web search concurrently,
// persists newly discovered investors, and caches the merged result.
// Identical concurrent queries collapse into a single execution.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/fundlens/fundlens/services/cache"
	"github.com/fundlens/fundlens/services/scraper"
	"github.com/fundlens/fundlens/services/store"
)

// resultTTL is how long a merged search result stays cached.
const resultTTL = 15 * time.Minute

// InvestorSource finds investors on the public web.
type InvestorSource interface {
	SearchInvestors(ctx context.Context, terms []string, location string) ([]scraper.InvestorResult, error)
}

// Query describes one combined search.
type Query struct {
	// Terms feed both the keyword filter and the web search.
	Terms []string `json:"terms"`

	// Location narrows both sides.
	Location string `json:"location"`

	// Filters apply to the database side only.
	Filters store.SearchFilters `json:"filters"`

	// IncludeWeb adds live web results to the stored corpus.
	IncludeWeb bool `json:"include_web"`
}

// Result is a merged search response.
type Result struct {
	Investors []store.Investor              `json:"investors"`
	News      map[string][]scraper.NewsItem `json:"recent_news,omitempty"`

	// WebCount is how many investors came from the live web search.
	WebCount int `json:"web_count"`

	// ScrapeError carries a failed web search. Local results still
	// return; the caller decides whether a partial answer is enough.
	ScrapeError string `json:"scrape_error,omitempty"`

	// FromCache marks responses served without a fresh query.
	FromCache bool `json:"from_cache"`
}

// Engine executes combined searches. Safe for concurrent use.
type Engine struct {
	store   *store.Store
	source  InvestorSource
	cache   *cache.Cache
	flights singleflight.Group
}

// New creates an engine. The cache may be nil to disable caching; the
// source may be nil to disable web search regardless of the query.
func New(st *store.Store, source InvestorSource, c *cache.Cache) *Engine {
	return &Engine{store: st, source: source, cache: c}
}

// Search runs a combined query. Results are cached for resultTTL, and
// identical queries in flight at the same time share one execution.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	key := queryKey(q)

	if e.cache != nil {
		var cached Result
		err := e.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			cached.FromCache = true
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("search cache read failed", "error", err)
		}
	}

	v, err, shared := e.flights.Do(key, func() (any, error) {
		return e.execute(ctx, q, key)
	})
	if err != nil {
		return nil, err
	}
	res := v.(*Result)
	if shared {
		// Shared callers get a copy so nobody mutates a neighbor's
		// response.
		cp := *res
		return &cp, nil
	}
	return res, nil
}

// Invalidate drops the cached result for a query.
func (e *Engine) Invalidate(ctx context.Context, q Query) error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Delete(ctx, queryKey(q))
}

func (e *Engine) execute(ctx context.Context, q Query, key string) (*Result, error) {
	filters := q.Filters
	if len(q.Terms) > 0 && len(filters.Keywords) == 0 {
		filters.Keywords = q.Terms
	}
	if q.Location != "" && filters.Location == "" {
		filters.Location = q.Location
	}

	var (
		local  []store.Investor
		web    []scraper.InvestorResult
		webErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = e.store.Search(gctx, filters)
		return err
	})
	if q.IncludeWeb && e.source != nil {
		g.Go(func() error {
			var err error
			web, err = e.source.SearchInvestors(gctx, q.Terms, q.Location)
			if err != nil {
				// A dead web source degrades the answer, it doesn't
				// destroy the local half.
				webErr = err
				slog.Warn("web investor search failed", "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("combined search: %w", err)
	}

	res := &Result{Investors: local}
	if webErr != nil {
		res.ScrapeError = webErr.Error()
	}

	if len(web) > 0 {
		res.News = make(map[string][]scraper.NewsItem)
		seen := make(map[string]bool, len(local))
		for _, inv := range local {
			seen[strings.ToLower(inv.Name)] = true
		}

		for _, wr := range web {
			if len(wr.News) > 0 {
				res.News[wr.Investor.Name] = wr.News
			}
			if seen[strings.ToLower(wr.Investor.Name)] {
				continue
			}
			seen[strings.ToLower(wr.Investor.Name)] = true

			inv := wr.Investor
			if err := e.store.Upsert(ctx, &inv); err != nil {
				slog.Warn("failed to persist scraped investor", "name", inv.Name, "error", err)
			}
			res.Investors = append(res.Investors, inv)
			res.WebCount++
		}
	}

	if e.cache != nil {
		if err := e.cache.SetJSON(ctx, key, res, resultTTL); err != nil {
			slog.Warn("search cache write failed", "error", err)
		}
	}
	return res, nil
}

// queryKey derives a stable cache key from the query's content.
func queryKey(q Query) string {
	data, _ := json.Marshal(q)
	sum := sha256.Sum256(data)
	return "search:" + hex.EncodeToString(sum[:12])
}
