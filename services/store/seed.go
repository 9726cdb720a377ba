// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import "context"

// SampleInvestors returns the built-in starter corpus. It keeps a fresh
// database useful before any scraping has happened and anchors the
// matcher's test fixtures.
func SampleInvestors() []Investor {
	return []Investor{
		{
			Name:             "Sequoia Capital",
			Type:             "Venture Capital",
			Location:         "Menlo Park, US",
			Investments:      1000,
			ProfileURL:       "https://example.com/sequoia",
			InvestmentStages: []string{"Seed", "Series A", "Series B"},
			FocusAreas:       []string{"AI/ML", "SaaS", "Enterprise Software"},
			InvestmentSize:   "$1M-$5M",
			YearsActive:      52,
			Latitude:         37.4529598,
			Longitude:        -122.1817252,
		},
		{
			Name:             "Andreessen Horowitz",
			Type:             "Venture Capital",
			Location:         "San Francisco, US",
			Investments:      850,
			ProfileURL:       "https://example.com/a16z",
			InvestmentStages: []string{"Seed", "Series A", "Growth"},
			FocusAreas:       []string{"Fintech", "Consumer Tech", "AI/ML"},
			InvestmentSize:   "$5M-$10M",
			YearsActive:      16,
			Latitude:         37.7749295,
			Longitude:        -122.4194155,
		},
		{
			Name:             "Y Combinator",
			Type:             "Accelerator",
			Location:         "Mountain View, US",
			Investments:      2000,
			ProfileURL:       "https://example.com/yc",
			InvestmentStages: []string{"Pre-Seed", "Seed"},
			FocusAreas:       []string{"SaaS", "Consumer Tech", "Fintech"},
			InvestmentSize:   "$100K-$500K",
			YearsActive:      20,
			Latitude:         37.3860517,
			Longitude:        -122.0838511,
		},
		{
			Name:             "Accel Partners",
			Type:             "Venture Capital",
			Location:         "Palo Alto, US",
			Investments:      750,
			ProfileURL:       "https://example.com/accel",
			InvestmentStages: []string{"Series A", "Series B", "Growth"},
			FocusAreas:       []string{"Enterprise Software", "SaaS", "Healthcare"},
			InvestmentSize:   "$1M-$5M",
			YearsActive:      42,
			Latitude:         37.4419444,
			Longitude:        -122.1430556,
		},
	}
}

// Seed upserts the sample corpus. Idempotent across restarts because
// Upsert dedupes by name.
func (s *Store) Seed(ctx context.Context) (int, error) {
	return s.UpsertBatch(ctx, SampleInvestors())
}
