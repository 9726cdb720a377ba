// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundlens/fundlens/services/cache"
	"github.com/fundlens/fundlens/services/scraper"
	"github.com/fundlens/fundlens/services/store"
)

// fakeSource returns scripted web results and counts invocations.
type fakeSource struct {
	results []scraper.InvestorResult
	err     error
	calls   atomic.Int64
}

func (f *fakeSource) SearchInvestors(ctx context.Context, terms []string, location string) ([]scraper.InvestorResult, error) {
	f.calls.Add(1)
	return f.results, f.err
}

func newTestEngine(t *testing.T, source InvestorSource) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{LocalPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	_, err = st.Seed(context.Background())
	require.NoError(t, err)

	c, err := cache.Open(cache.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return New(st, source, c), st
}

func TestSearchLocalOnly(t *testing.T) {
	source := &fakeSource{}
	e, _ := newTestEngine(t, source)

	res, err := e.Search(context.Background(), Query{
		Filters: store.SearchFilters{InvestorTypes: []string{"Accelerator"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Investors, 1)
	assert.Equal(t, "Y Combinator", res.Investors[0].Name)
	assert.Zero(t, res.WebCount)
	assert.Zero(t, source.calls.Load())
}

func TestSearchMergesWebResults(t *testing.T) {
	source := &fakeSource{results: []scraper.InvestorResult{
		{
			Investor: store.Investor{Name: "Harbor Ventures", Type: "Venture Capital", Scraped: true},
			News:     []scraper.NewsItem{{Title: "Harbor raises fund II", Date: "Recent"}},
		},
		{
			// Already stored under the same name; must not duplicate.
			Investor: store.Investor{Name: "Y Combinator", Type: "Accelerator", Scraped: true},
		},
	}}
	e, st := newTestEngine(t, source)

	res, err := e.Search(context.Background(), Query{
		Terms:      []string{"combinator", "harbor"},
		IncludeWeb: true,
	})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Investors))
	for _, inv := range res.Investors {
		names = append(names, inv.Name)
	}
	assert.Contains(t, names, "Y Combinator")
	assert.Contains(t, names, "Harbor Ventures")
	assert.Equal(t, 1, res.WebCount)
	assert.Len(t, res.News["Harbor Ventures"], 1)

	t.Run("scraped investor is persisted", func(t *testing.T) {
		got, err := st.GetByName(context.Background(), "Harbor Ventures")
		require.NoError(t, err)
		assert.True(t, got.Scraped)
	})
}

func TestSearchCachesResults(t *testing.T) {
	source := &fakeSource{}
	e, _ := newTestEngine(t, source)
	q := Query{Terms: []string{"combinator"}, IncludeWeb: true}

	first, err := e.Search(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := e.Search(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, int64(1), source.calls.Load())

	t.Run("invalidate forces a fresh query", func(t *testing.T) {
		require.NoError(t, e.Invalidate(context.Background(), q))
		third, err := e.Search(context.Background(), q)
		require.NoError(t, err)
		assert.False(t, third.FromCache)
		assert.Equal(t, int64(2), source.calls.Load())
	})
}

func TestSearchSurvivesWebFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("blocked upstream")}
	e, _ := newTestEngine(t, source)

	res, err := e.Search(context.Background(), Query{
		Terms:      []string{"combinator"},
		IncludeWeb: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Investors)
	assert.Contains(t, res.ScrapeError, "blocked upstream")
}

func TestQueryKeyIsStable(t *testing.T) {
	q := Query{Terms: []string{"fintech"}, Location: "Boston"}
	assert.Equal(t, queryKey(q), queryKey(q))
	assert.NotEqual(t, queryKey(q), queryKey(Query{Terms: []string{"fintech"}}))
}
