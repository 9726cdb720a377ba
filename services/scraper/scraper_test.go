// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.crunchbase.com%2Forganization%2Fgranite-ventures&amp;rut=abc">Granite Ventures | Crunchbase</a>
    </h2>
    <a class="result__snippet" href="#">Granite Ventures is a venture capital firm based in Boston, US. They focus on seed and series a fintech and SaaS startups.</a>
    <a class="result__url" href="#">www.crunchbase.com/organization/granite-ventures</a>
  </div>
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a class="result__a" href="https://example.com/bakery">Best Bakeries in Boston</a>
    </h2>
    <a class="result__snippet" href="#">A guide to sourdough and pastries around town.</a>
    <a class="result__url" href="#">example.com/bakery</a>
  </div>
</div>
</body></html>`

const newsPage = `<!DOCTYPE html>
<html><body>
<div class="result web-result">
  <h2 class="result__title"><a class="result__a" href="https://news.example.com/1">Granite Ventures raises new fund</a></h2>
  <a class="result__snippet" href="#">Announced on 12 March 2025, the venture firm closed its fourth fund.</a>
  <a class="result__url" href="#">news.example.com/1</a>
</div>
<div class="result web-result">
  <h2 class="result__title"><a class="result__a" href="https://news.example.com/2">Granite backs fintech startup</a></h2>
  <a class="result__snippet" href="#">The deal was announced this week.</a>
  <a class="result__url" href="#">news.example.com/2</a>
</div>
</body></html>`

const portfolioPage = `<!DOCTYPE html>
<html><body>
<div class="result web-result">
  <h2 class="result__title"><a class="result__a" href="https://example.com/p">Granite Ventures portfolio</a></h2>
  <a class="result__snippet" href="#">Their portfolio companies: Acme Robotics, Brightline and Corvid Labs. They also invested in Deltaworks.</a>
  <a class="result__url" href="#">example.com/p</a>
</div>
</body></html>`

func newTestScraper(t *testing.T, page string) *Scraper {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return New(Config{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL + "/html/",
	})
}

func TestParseResults(t *testing.T) {
	results, err := parseResults(strings.NewReader(resultsPage), 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Granite Ventures | Crunchbase", results[0].Title)
	assert.Equal(t, "https://www.crunchbase.com/organization/granite-ventures", results[0].LinkURL)
	assert.Equal(t, "www.crunchbase.com/organization/granite-ventures", results[0].DisplayURL)
	assert.Contains(t, results[0].Snippet, "venture capital firm")
}

func TestParseResultsHonorsLimit(t *testing.T) {
	results, err := parseResults(strings.NewReader(resultsPage), 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestUnwrapRedirect(t *testing.T) {
	got := unwrapRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=xyz")
	assert.Equal(t, "https://example.com/page", got)

	plain := unwrapRedirect("https://example.com/direct")
	assert.Equal(t, "https://example.com/direct", plain)
}

func TestExtractInvestor(t *testing.T) {
	t.Run("full extraction", func(t *testing.T) {
		inv, ok := extractInvestor(
			"Granite Ventures | Crunchbase",
			"Granite Ventures is a venture capital firm based in Boston, US. They focus on seed and series a fintech and SaaS startups.",
			"www.crunchbase.com/organization/granite-ventures",
		)
		require.True(t, ok)
		assert.Equal(t, "Granite Ventures", inv.Name)
		assert.Equal(t, "Venture Capital", inv.Type)
		assert.Equal(t, "Boston, US", inv.Location)
		assert.Contains(t, inv.FocusAreas, "Fintech")
		assert.Contains(t, inv.FocusAreas, "SaaS")
		assert.Contains(t, inv.InvestmentStages, "Seed")
		assert.Contains(t, inv.InvestmentStages, "Series A")
		assert.True(t, inv.Scraped)
	})

	t.Run("rejects unrelated results", func(t *testing.T) {
		_, ok := extractInvestor("Best Bakeries in Boston", "A guide to sourdough and pastries.", "")
		assert.False(t, ok)
	})

	t.Run("unknown location", func(t *testing.T) {
		inv, ok := extractInvestor("Alpha Fund", "An early stage fund.", "")
		require.True(t, ok)
		assert.Equal(t, "Unknown", inv.Location)
	})

	t.Run("non-venture investor type", func(t *testing.T) {
		inv, ok := extractInvestor("Quiet Capital Partners", "An investor group for growth companies.", "")
		require.True(t, ok)
		assert.Equal(t, "Investor", inv.Type)
	})
}

func TestExtractDate(t *testing.T) {
	assert.Equal(t, "12 March 2025", extractDate("Announced on 12 March 2025, the firm closed its fund."))
	assert.Equal(t, "Mar 3, 2025", extractDate("Published Mar 3, 2025 by the wire."))
	assert.Equal(t, "Recent", extractDate("No date in this snippet."))
}

func TestExtractCompanyNames(t *testing.T) {
	names := extractCompanyNames(
		"Their portfolio companies: Acme Robotics, Brightline and Corvid Labs. They also invested in Deltaworks.")
	assert.ElementsMatch(t, []string{"Acme Robotics", "Brightline", "Corvid Labs", "Deltaworks"}, names)
}

func TestSearchInvestors(t *testing.T) {
	s := newTestScraper(t, resultsPage)

	results, err := s.SearchInvestors(context.Background(), []string{"fintech"}, "Boston")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Granite Ventures", results[0].Investor.Name)
	// The news enrichment hits the same stub page, which has one
	// investor-shaped result.
	assert.NotEmpty(t, results[0].News)
}

func TestSearchNews(t *testing.T) {
	s := newTestScraper(t, newsPage)

	news, err := s.SearchNews(context.Background(), "Granite Ventures")
	require.NoError(t, err)
	require.Len(t, news, 2)
	assert.Equal(t, "12 March 2025", news[0].Date)
	assert.Equal(t, "Recent", news[1].Date)
}

func TestPortfolioCompanies(t *testing.T) {
	s := newTestScraper(t, portfolioPage)

	companies, err := s.PortfolioCompanies(context.Background(), "Granite Ventures")
	require.NoError(t, err)
	require.Len(t, companies, 4)
	assert.Equal(t, "Granite Ventures", companies[0].Investor)
}

func TestSearchErrorsOnHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(Config{HTTPClient: srv.Client(), BaseURL: srv.URL + "/html/"})
	_, err := s.SearchInvestors(context.Background(), []string{"fintech"}, "")
	assert.Error(t, err)
}

func TestRateLimiterBlocksPastBudget(t *testing.T) {
	limiters := newSourceLimiters(map[string]Limit{
		"tiny": {Requests: 1, Window: time.Hour},
	})

	require.NoError(t, limiters.wait(context.Background(), "tiny"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, limiters.wait(ctx, "tiny"))
}

func TestRateLimiterFallsBackToDefault(t *testing.T) {
	limiters := newSourceLimiters(nil)
	require.NoError(t, limiters.wait(context.Background(), "unheard-of"))
}
