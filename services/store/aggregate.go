// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// DashboardMetrics summarizes the investor corpus for the dashboard
// endpoint.
type DashboardMetrics struct {
	TotalInvestors    int             `json:"total_investors"`
	AvgInvestments    float64         `json:"avg_investments"`
	DistinctLocations int             `json:"distinct_locations"`
	DistinctTypes     int             `json:"distinct_types"`
	TypeCounts        map[string]int  `json:"type_counts"`
	TopLocations      []LocationCount `json:"top_locations"`
	StageCoverage     []string        `json:"stage_coverage"`
}

// LocationCount is one entry of the top-locations leaderboard.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// ComparisonRow is one investor in a side-by-side comparison.
type ComparisonRow struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Location       string          `json:"location"`
	Investments    int             `json:"investments"`
	YearsActive    int             `json:"years_active"`
	InvestmentSize string          `json:"investment_size"`
	FocusAreas     []string        `json:"focus_areas"`
	StageSupport   map[string]bool `json:"stage_support"`
}

// Comparison holds a stage-by-stage matrix for a set of investors.
type Comparison struct {
	Stages    []string        `json:"stages"`
	Investors []ComparisonRow `json:"investors"`
}

// Dashboard computes corpus-wide metrics. Counting happens in Go over a
// single scan; the corpus is small enough that per-metric SQL would
// cost more round-trips than it saves.
func (s *Store) Dashboard(ctx context.Context) (*DashboardMetrics, error) {
	var rows []Investor
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load investors for dashboard: %w", err)
	}

	m := &DashboardMetrics{
		TypeCounts: make(map[string]int),
	}
	m.TotalInvestors = len(rows)
	if len(rows) == 0 {
		m.TopLocations = []LocationCount{}
		m.StageCoverage = []string{}
		return m, nil
	}

	totalInvestments := 0
	locations := make(map[string]int)
	stages := make(map[string]bool)
	for _, inv := range rows {
		totalInvestments += inv.Investments
		if inv.Location != "" {
			locations[inv.Location]++
		}
		if inv.Type != "" {
			m.TypeCounts[inv.Type]++
		}
		for _, st := range inv.InvestmentStages {
			stages[st] = true
		}
	}

	m.AvgInvestments = math.Round(float64(totalInvestments)/float64(len(rows))*10) / 10
	m.DistinctLocations = len(locations)
	m.DistinctTypes = len(m.TypeCounts)

	for loc, n := range locations {
		m.TopLocations = append(m.TopLocations, LocationCount{Location: loc, Count: n})
	}
	sort.Slice(m.TopLocations, func(i, j int) bool {
		if m.TopLocations[i].Count != m.TopLocations[j].Count {
			return m.TopLocations[i].Count > m.TopLocations[j].Count
		}
		return m.TopLocations[i].Location < m.TopLocations[j].Location
	})
	if len(m.TopLocations) > 5 {
		m.TopLocations = m.TopLocations[:5]
	}

	// Coverage follows the canonical stage order, not insertion order.
	for _, st := range InvestmentStages {
		if stages[st] {
			m.StageCoverage = append(m.StageCoverage, st)
		}
	}
	return m, nil
}

// Compare builds a stage-support matrix for the named investors.
// Unknown names are skipped; at least two resolved investors are
// required for a meaningful comparison.
func (s *Store) Compare(ctx context.Context, names []string) (*Comparison, error) {
	var rows []ComparisonRow
	stageSet := make(map[string]bool)

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		inv, err := s.GetByName(ctx, name)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}

		support := make(map[string]bool, len(inv.InvestmentStages))
		for _, st := range inv.InvestmentStages {
			support[st] = true
			stageSet[st] = true
		}
		rows = append(rows, ComparisonRow{
			Name:           inv.Name,
			Type:           inv.Type,
			Location:       inv.Location,
			Investments:    inv.Investments,
			YearsActive:    inv.YearsActive,
			InvestmentSize: inv.InvestmentSize,
			FocusAreas:     inv.FocusAreas,
			StageSupport:   support,
		})
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("comparison needs at least two known investors, resolved %d", len(rows))
	}

	cmp := &Comparison{Investors: rows}
	for _, st := range InvestmentStages {
		if stageSet[st] {
			cmp.Stages = append(cmp.Stages, st)
		}
	}
	return cmp, nil
}
