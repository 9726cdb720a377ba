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
	"sort"
	"strings"
)

// Sort keys accepted by SearchFilters.SortBy.
const (
	SortByInvestments = "investments"
	SortByYearsActive = "years_active"
	SortByName        = "name"
	SortByLocation    = "location"
)

// SearchFilters describes an investor search. Zero values mean
// "no constraint"; an all-zero filter returns every investor.
type SearchFilters struct {
	// InvestorTypes restricts to the given Type values.
	InvestorTypes []string `json:"investor_types,omitempty"`

	// Location is a case-insensitive substring match against Location.
	Location string `json:"location,omitempty"`

	// Regions restricts by region, matched against the country component
	// of Location. Values come from Regions.
	Regions []string `json:"regions,omitempty"`

	// FocusAreas requires at least one overlap with the investor's
	// focus areas.
	FocusAreas []string `json:"focus_areas,omitempty"`

	// Keywords are matched case-insensitively against name, description,
	// location, and focus areas. Any keyword hit qualifies the record.
	Keywords []string `json:"keywords,omitempty"`

	// MinInvestments/MaxInvestments bound the investment count.
	// MaxInvestments of 0 means unbounded.
	MinInvestments int `json:"min_investments,omitempty"`
	MaxInvestments int `json:"max_investments,omitempty"`

	// Stages requires at least one overlap with the investor's stages.
	Stages []string `json:"investment_stages,omitempty"`

	// Sectors requires at least one overlap with the investor's focus
	// areas. Kept separate from FocusAreas to mirror the basic/advanced
	// filter split of the search API.
	Sectors []string `json:"sectors,omitempty"`

	// MinInvestmentSize/MaxInvestmentSize bound the check-size bracket,
	// expressed as FundingBrackets entries. Empty means unbounded.
	MinInvestmentSize string `json:"min_investment_size,omitempty"`
	MaxInvestmentSize string `json:"max_investment_size,omitempty"`

	// MinYearsActive/MaxYearsActive bound the years-active range.
	// MaxYearsActive of 0 means unbounded.
	MinYearsActive int `json:"min_years_active,omitempty"`
	MaxYearsActive int `json:"max_years_active,omitempty"`

	// SortBy is one of the SortBy* constants. Default: investments.
	SortBy string `json:"sort_by,omitempty"`

	// SortOrder is "asc" or "desc". Default: desc.
	SortOrder string `json:"sort_order,omitempty"`
}

// Search runs a filtered, sorted investor query.
//
// Scalar constraints (type, location, numeric ranges) are pushed into
// SQL; list-valued constraints (stages, sectors, keywords, size
// brackets) are evaluated in Go because those attributes live in JSON
// columns that must stay portable between postgres and sqlite.
//
// Sorting is total: the requested key first, then name ascending as a
// tie-break, so repeated searches return stable orderings.
func (s *Store) Search(ctx context.Context, f SearchFilters) ([]Investor, error) {
	q := s.db.WithContext(ctx).Model(&Investor{})

	if len(f.InvestorTypes) > 0 {
		q = q.Where("type IN ?", f.InvestorTypes)
	}
	if f.Location != "" {
		q = q.Where("lower(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.MinInvestments > 0 {
		q = q.Where("investments >= ?", f.MinInvestments)
	}
	if f.MaxInvestments > 0 {
		q = q.Where("investments <= ?", f.MaxInvestments)
	}
	if f.MinYearsActive > 0 {
		q = q.Where("years_active >= ?", f.MinYearsActive)
	}
	if f.MaxYearsActive > 0 {
		q = q.Where("years_active <= ?", f.MaxYearsActive)
	}

	var rows []Investor
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search investors: %w", err)
	}

	out := rows[:0]
	for _, inv := range rows {
		if matchesListFilters(&inv, f) {
			out = append(out, inv)
		}
	}

	sortInvestors(out, f.SortBy, f.SortOrder)
	return out, nil
}

// SearchByCriteria runs a saved alert criteria against the store.
func (s *Store) SearchByCriteria(ctx context.Context, c AlertCriteria) ([]Investor, error) {
	f := SearchFilters{
		InvestorTypes:  c.InvestorTypes,
		Stages:         c.Stages,
		MinInvestments: c.MinInvestments,
		Sectors:        c.Sectors,
		Keywords:       c.Keywords,
	}
	matched, err := s.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(c.Locations) == 0 {
		return matched, nil
	}

	// Any-of location semantics for alerts, unlike the single substring
	// of interactive search.
	out := matched[:0]
	for _, inv := range matched {
		loc := strings.ToLower(inv.Location)
		for _, want := range c.Locations {
			if want != "" && strings.Contains(loc, strings.ToLower(want)) {
				out = append(out, inv)
				break
			}
		}
	}
	return out, nil
}

// matchesListFilters applies the JSON-column constraints.
func matchesListFilters(inv *Investor, f SearchFilters) bool {
	if len(f.Regions) > 0 && !inRegion(inv.Location, f.Regions) {
		return false
	}
	if len(f.Stages) > 0 && !overlaps(inv.InvestmentStages, f.Stages) {
		return false
	}
	if len(f.Sectors) > 0 && !overlaps(inv.FocusAreas, f.Sectors) {
		return false
	}
	if len(f.FocusAreas) > 0 && !overlaps(inv.FocusAreas, f.FocusAreas) {
		return false
	}
	if !withinBracketRange(inv.InvestmentSize, f.MinInvestmentSize, f.MaxInvestmentSize) {
		return false
	}
	if len(f.Keywords) > 0 && !matchesKeywords(inv, f.Keywords) {
		return false
	}
	return true
}

// overlaps reports whether any wanted entry appears in have,
// case-insensitively.
func overlaps(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// regionCountries maps each region, lowercased, to the country tokens
// that appear as the trailing component of stored locations.
var regionCountries = map[string][]string{
	"north america": {"us", "usa", "united states", "canada", "mexico"},
	"europe": {
		"uk", "united kingdom", "germany", "france", "netherlands", "spain",
		"italy", "sweden", "switzerland", "ireland", "portugal", "denmark",
		"finland", "norway", "belgium", "austria", "poland", "estonia",
	},
	"asia": {
		"china", "india", "japan", "singapore", "south korea", "israel",
		"indonesia", "hong kong", "taiwan", "vietnam", "uae",
	},
	"south america": {"brazil", "argentina", "chile", "colombia", "peru", "uruguay"},
	"africa":        {"nigeria", "south africa", "kenya", "egypt", "ghana", "morocco"},
	"oceania":       {"australia", "new zealand"},
}

// inRegion reports whether the location's country component belongs to
// any of the wanted regions. Locations without a recognizable country
// never match; a region filter is a positive geographic claim.
func inRegion(location string, regions []string) bool {
	country := strings.ToLower(strings.TrimSpace(location))
	if idx := strings.LastIndex(country, ","); idx >= 0 {
		country = strings.TrimSpace(country[idx+1:])
	}
	if country == "" {
		return false
	}
	for _, region := range regions {
		for _, c := range regionCountries[strings.ToLower(strings.TrimSpace(region))] {
			if country == c {
				return true
			}
		}
	}
	return false
}

// matchesKeywords reports whether any keyword appears in the investor's
// textual attributes.
func matchesKeywords(inv *Investor, keywords []string) bool {
	haystack := strings.ToLower(strings.Join(append([]string{
		inv.Name, inv.Description, inv.Location, inv.Type,
	}, inv.FocusAreas...), " "))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// withinBracketRange checks an investor's check-size bracket against a
// [lo, hi] bracket window. Investors without a known bracket pass; the
// bracket filter narrows, it never excludes unknowns.
func withinBracketRange(bracket, lo, hi string) bool {
	if lo == "" && hi == "" {
		return true
	}
	if bracket == "" {
		return true
	}
	idx := bracketIndex(bracket)
	if idx < 0 {
		return true
	}
	if lo != "" {
		if loIdx := bracketIndex(lo); loIdx >= 0 && idx < loIdx {
			return false
		}
	}
	if hi != "" {
		if hiIdx := bracketIndex(hi); hiIdx >= 0 && idx > hiIdx {
			return false
		}
	}
	return true
}

// bracketIndex returns the position of a bracket label in
// FundingBrackets, or -1.
func bracketIndex(bracket string) int {
	for i, b := range FundingBrackets {
		if strings.EqualFold(b, bracket) {
			return i
		}
	}
	return -1
}

// sortInvestors orders results by the requested key with name as the
// tie-break.
func sortInvestors(investors []Investor, sortBy, order string) {
	desc := order != "asc"

	less := func(a, b *Investor) bool {
		switch sortBy {
		case SortByName:
			return a.Name < b.Name
		case SortByLocation:
			if a.Location != b.Location {
				return a.Location < b.Location
			}
		case SortByYearsActive:
			if a.YearsActive != b.YearsActive {
				return a.YearsActive < b.YearsActive
			}
		default: // SortByInvestments
			if a.Investments != b.Investments {
				return a.Investments < b.Investments
			}
		}
		return a.Name < b.Name
	}

	sort.SliceStable(investors, func(i, j int) bool {
		if desc {
			return less(&investors[j], &investors[i])
		}
		return less(&investors[i], &investors[j])
	})
}
