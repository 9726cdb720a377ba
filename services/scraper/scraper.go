// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package scraper collects investor intelligence from public web
// sources.
//
// All queries go through DuckDuckGo's HTML endpoint, which needs no API
// key. Investor discovery is scoped to crunchbase.com results; news and
// portfolio lookups search the open web. Each upstream source has its
// own rate limit. Scrape failures surface as errors rather than
// degrading into fabricated results.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fundlens/fundlens/services/store"
)

const (
	searchEndpoint = "https://html.duckduckgo.com/html/"

	maxInvestorResults  = 10
	maxNewsResults      = 5
	keptNewsResults     = 3
	maxPortfolioResults = 8
	newsEnrichLimit     = 5

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36"
)

// NewsItem is one news mention of an investor.
type NewsItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Date    string `json:"date"`
}

// PortfolioCompany is a company attributed to an investor's portfolio.
type PortfolioCompany struct {
	Name        string `json:"name"`
	Investor    string `json:"investor"`
	Description string `json:"description"`
}

// InvestorResult pairs a scraped investor profile with its recent news.
type InvestorResult struct {
	Investor store.Investor `json:"investor"`
	News     []NewsItem     `json:"recent_news,omitempty"`
}

// Config holds scraper settings.
type Config struct {
	// HTTPClient overrides the default client. Used by tests.
	HTTPClient *http.Client

	// BaseURL overrides the search endpoint. Used by tests.
	BaseURL string

	// UserAgent overrides the browser-like default.
	UserAgent string

	// Timeout bounds each search request. Default: 10s.
	Timeout time.Duration

	// Limits overrides the per-source rate limits.
	Limits map[string]Limit
}

// Scraper performs rate-limited web searches. Safe for concurrent use.
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
	limiters  *sourceLimiters
}

// New creates a scraper.
func New(cfg Config) *Scraper {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = searchEndpoint
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Scraper{
		client:    cfg.HTTPClient,
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		limiters:  newSourceLimiters(cfg.Limits),
	}
}

// SearchInvestors finds investors matching the search terms, optionally
// narrowed to a location. The top results are enriched with recent
// news.
func (s *Scraper) SearchInvestors(ctx context.Context, terms []string, location string) ([]InvestorResult, error) {
	combined := strings.Join(terms, " ")
	if location != "" {
		combined += " " + location
	}
	query := "venture capital investors " + strings.TrimSpace(combined)

	raw, err := s.search(ctx, sourceCrunchbase, query+" site:crunchbase.com", maxInvestorResults)
	if err != nil {
		return nil, fmt.Errorf("investor search: %w", err)
	}

	var out []InvestorResult
	for _, r := range raw {
		inv, ok := extractInvestor(r.Title, r.Snippet, r.DisplayURL)
		if !ok {
			continue
		}
		out = append(out, InvestorResult{Investor: inv})
	}

	// News enrichment is best effort. One failed lookup should not sink
	// the whole search.
	for i := range out {
		if i >= newsEnrichLimit {
			break
		}
		news, err := s.SearchNews(ctx, out[i].Investor.Name)
		if err != nil {
			continue
		}
		if len(news) > keptNewsResults {
			news = news[:keptNewsResults]
		}
		out[i].News = news
	}
	return out, nil
}

// SearchNews finds recent news mentions of an investor.
func (s *Scraper) SearchNews(ctx context.Context, investorName string) ([]NewsItem, error) {
	query := investorName + " venture capital news"
	raw, err := s.search(ctx, sourceDefault, query, maxNewsResults)
	if err != nil {
		return nil, fmt.Errorf("news search for %q: %w", investorName, err)
	}

	out := make([]NewsItem, 0, len(raw))
	for _, r := range raw {
		out = append(out, NewsItem{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.DisplayURL,
			Date:    extractDate(r.Snippet),
		})
	}
	return out, nil
}

// PortfolioCompanies finds companies attributed to an investor's
// portfolio. Company names are pulled from result snippets, so recall
// depends on how the source phrases its portfolio lists.
func (s *Scraper) PortfolioCompanies(ctx context.Context, investorName string) ([]PortfolioCompany, error) {
	query := investorName + " portfolio companies"
	raw, err := s.search(ctx, sourceDefault, query, maxPortfolioResults)
	if err != nil {
		return nil, fmt.Errorf("portfolio search for %q: %w", investorName, err)
	}

	var out []PortfolioCompany
	seen := make(map[string]bool)
	for _, r := range raw {
		for _, name := range extractCompanyNames(r.Snippet) {
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, PortfolioCompany{
				Name:        name,
				Investor:    investorName,
				Description: extractCompanyDescription(name, r.Snippet),
			})
		}
	}
	return out, nil
}

// Enrich fills gaps in an investor record from the web: recent news
// always, focus areas when missing. The input is modified in place.
func (s *Scraper) Enrich(ctx context.Context, inv *store.Investor) ([]NewsItem, error) {
	if inv.Name == "" {
		return nil, nil
	}

	news, err := s.SearchNews(ctx, inv.Name)
	if err != nil {
		return nil, err
	}
	if len(news) > keptNewsResults {
		news = news[:keptNewsResults]
	}

	if len(inv.FocusAreas) == 0 {
		results, err := s.search(ctx, sourceCrunchbase,
			inv.Name+" venture focus site:crunchbase.com", maxInvestorResults)
		if err == nil && len(results) > 0 {
			if cand, ok := extractInvestor(results[0].Title, results[0].Snippet, results[0].DisplayURL); ok {
				inv.FocusAreas = cand.FocusAreas
			}
		}
	}
	return news, nil
}

// search runs one rate-limited DuckDuckGo query.
func (s *Scraper) search(ctx context.Context, source string, query string, maxResults int) ([]rawResult, error) {
	if err := s.limiters.wait(ctx, source); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	searchURL := s.baseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}
	return parseResults(resp.Body, maxResults)
}
