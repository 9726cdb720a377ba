// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundlens/fundlens/services/store"
)

func TestStandardizedStages(t *testing.T) {
	t.Run("seed", func(t *testing.T) {
		assert.Equal(t, []string{"Seed", "Pre-Seed"}, standardizedStages("Seed"))
	})

	t.Run("pre-seed hits both aliases", func(t *testing.T) {
		// "pre-seed" contains both the "pre-seed" and "seed" aliases,
		// so the expansion carries duplicates. The duplicates weight
		// the score toward stages named twice.
		assert.Equal(t, []string{"Pre-Seed", "Seed", "Seed", "Pre-Seed"}, standardizedStages("Pre-Seed"))
	})

	t.Run("unknown falls back to all stages", func(t *testing.T) {
		assert.Equal(t, store.InvestmentStages, standardizedStages("stealth mode"))
	})
}

func TestStageScore(t *testing.T) {
	profile := StartupProfile{Stage: "Seed"}

	t.Run("partial coverage", func(t *testing.T) {
		inv := store.Investor{InvestmentStages: []string{"Seed", "Series A"}}
		// Wanted stages are [Seed Pre-Seed]; only Seed is covered.
		assert.InDelta(t, 0.5, stageScore(&inv, &profile), 1e-9)
	})

	t.Run("full coverage", func(t *testing.T) {
		inv := store.Investor{InvestmentStages: []string{"Pre-Seed", "Seed"}}
		assert.InDelta(t, 1.0, stageScore(&inv, &profile), 1e-9)
	})

	t.Run("no stages is neutral", func(t *testing.T) {
		inv := store.Investor{}
		assert.InDelta(t, 0.5, stageScore(&inv, &profile), 1e-9)
	})
}

func TestSectorScore(t *testing.T) {
	t.Run("identical focus scores 1", func(t *testing.T) {
		inv := store.Investor{FocusAreas: []string{"SaaS"}}
		profile := StartupProfile{Sector: "SaaS"}
		assert.InDelta(t, 1.0, sectorScore(&inv, startupSectorText(&profile)), 1e-9)
	})

	t.Run("partial overlap", func(t *testing.T) {
		inv := store.Investor{FocusAreas: []string{"Fintech", "SaaS"}}
		profile := StartupProfile{Sector: "SaaS"}
		// TF-IDF cosine of "saas" against "fintech saas": the shared
		// term has idf 1, the unique term ln(3/2)+1.
		assert.InDelta(t, 0.5797, sectorScore(&inv, startupSectorText(&profile)), 0.001)
	})

	t.Run("no focus areas is neutral", func(t *testing.T) {
		inv := store.Investor{}
		profile := StartupProfile{Sector: "SaaS"}
		assert.InDelta(t, 0.5, sectorScore(&inv, startupSectorText(&profile)), 1e-9)
	})

	t.Run("description words stand in for unknown sectors", func(t *testing.T) {
		inv := store.Investor{FocusAreas: []string{"robotics"}}
		profile := StartupProfile{Description: "warehouse robotics automation"}
		score := sectorScore(&inv, startupSectorText(&profile))
		assert.Greater(t, score, 0.0)
	})
}

func TestLocationScore(t *testing.T) {
	profile := StartupProfile{Location: "Boston, United States"}

	cases := []struct {
		name     string
		investor string
		want     float64
	}{
		{"direct substring match", "Boston, United States", 1.0},
		{"same country", "New York, United States", 0.8},
		{"global investor", "Global", 0.6},
		{"no stated location", "", 0.6},
		{"different geography", "Berlin, Germany", 0.4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := store.Investor{Location: tc.investor}
			assert.InDelta(t, tc.want, locationScore(&inv, &profile), 1e-9)
		})
	}
}

func TestSizeScore(t *testing.T) {
	t.Run("same bracket", func(t *testing.T) {
		inv := store.Investor{InvestmentSize: "$1M-$5M"}
		profile := StartupProfile{FundingNeeded: "$1M-$5M"}
		assert.InDelta(t, 1.0, sizeScore(&inv, &profile), 1e-9)
	})

	t.Run("disjoint brackets", func(t *testing.T) {
		inv := store.Investor{InvestmentSize: "> $10M"}
		profile := StartupProfile{FundingNeeded: "< $100K"}
		assert.InDelta(t, 0.2, sizeScore(&inv, &profile), 1e-9)
	})

	t.Run("no stated size is neutral", func(t *testing.T) {
		inv := store.Investor{}
		profile := StartupProfile{FundingNeeded: "$1M-$5M"}
		assert.InDelta(t, 0.5, sizeScore(&inv, &profile), 1e-9)
	})

	t.Run("unspecified funding overlaps any finite bracket fully", func(t *testing.T) {
		inv := store.Investor{InvestmentSize: "$1M-$5M"}
		profile := StartupProfile{}
		assert.InDelta(t, 1.0, sizeScore(&inv, &profile), 1e-9)
	})

	t.Run("both ranges unbounded", func(t *testing.T) {
		inv := store.Investor{InvestmentSize: "> $10M"}
		profile := StartupProfile{}
		assert.InDelta(t, 0.7, sizeScore(&inv, &profile), 1e-9)
	})
}

func TestMatchRanking(t *testing.T) {
	m := New()
	profile := StartupProfile{
		Name:          "Paylane",
		Stage:         "Seed",
		Location:      "San Francisco, US",
		Sector:        "Finance SaaS",
		FundingNeeded: "$500K-$1M",
		Description:   "Payment infrastructure for subscription businesses",
	}

	investors := []store.Investor{
		{
			Name:             "Far Away Fund",
			Location:         "Berlin, Germany",
			InvestmentStages: []string{"Series C"},
			FocusAreas:       []string{"Hardware"},
			InvestmentSize:   "> $10M",
		},
		{
			Name:             "Bay Seed Partners",
			Location:         "San Francisco, US",
			InvestmentStages: []string{"Pre-Seed", "Seed"},
			FocusAreas:       []string{"Finance", "SaaS"},
			InvestmentSize:   "$500K-$1M",
		},
	}

	matches := m.Match(investors, profile, 0)
	require.Len(t, matches, 2)

	assert.Equal(t, "Bay Seed Partners", matches[0].Investor.Name)
	assert.Greater(t, matches[0].Percentage, matches[1].Percentage)
	assert.GreaterOrEqual(t, matches[0].Percentage, 80.0)
	assert.LessOrEqual(t, matches[1].Percentage, 40.0)
}

func TestMatchTopN(t *testing.T) {
	m := New()
	var investors []store.Investor
	for i := 0; i < 15; i++ {
		investors = append(investors, store.Investor{Name: string(rune('A' + i))})
	}

	matches := m.Match(investors, StartupProfile{Stage: "Seed"}, 0)
	assert.Len(t, matches, DefaultTopN)

	matches = m.Match(investors, StartupProfile{Stage: "Seed"}, 3)
	assert.Len(t, matches, 3)
}

func TestMatchEmptyInput(t *testing.T) {
	assert.Nil(t, New().Match(nil, StartupProfile{}, 5))
}

func TestMatchTieBreaksByName(t *testing.T) {
	m := New()
	investors := []store.Investor{
		{Name: "Zeta Fund"},
		{Name: "Alpha Fund"},
	}
	matches := m.Match(investors, StartupProfile{}, 0)
	require.Len(t, matches, 2)
	assert.Equal(t, "Alpha Fund", matches[0].Investor.Name)
}

func TestExplain(t *testing.T) {
	m := New()
	profile := StartupProfile{
		Stage:         "Seed",
		Location:      "Boston, US",
		Sector:        "Healthcare",
		FundingNeeded: "$1M-$5M",
		Description:   "Clinical trial tooling",
	}
	inv := store.Investor{
		Name:             "Beacon Health Capital",
		Location:         "Boston, US",
		InvestmentStages: []string{"Seed", "Series A"},
		FocusAreas:       []string{"Healthcare"},
		InvestmentSize:   "$1M-$5M",
	}

	matches := m.Match([]store.Investor{inv}, profile, 1)
	require.Len(t, matches, 1)

	expl := m.Explain(matches[0], profile)
	assert.Contains(t, expl.StageMatch.Details, "specifically targets Seed")
	assert.Contains(t, expl.SectorMatch.Details, "Healthcare")
	assert.Contains(t, expl.LocationMatch.Details, "includes your location")
	assert.Contains(t, expl.InvestmentSizeMatch.Details, "aligns well")
	assert.Contains(t, expl.Summary, "Excellent match!")
}

func TestSummaryTiers(t *testing.T) {
	cases := []struct {
		percentage float64
		want       string
	}{
		{85, "Excellent match!"},
		{65, "Good match."},
		{45, "Moderate match."},
		{20, "Limited match."},
	}
	for _, tc := range cases {
		mt := Match{Percentage: tc.percentage, Investor: store.Investor{Name: "X"}}
		assert.Contains(t, summarize(mt), tc.want)
	}
}
