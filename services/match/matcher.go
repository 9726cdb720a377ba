// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package match scores investors against a startup profile.
//
// Four criteria contribute to a weighted overall score: investment
// stage (0.35), sector focus (0.30), location (0.20), and check size
// (0.15). Each criterion scores in [0,1]; investors that do not state a
// preference receive a neutral 0.5 for that criterion.
package match

import (
	"math"
	"sort"

	"github.com/fundlens/fundlens/services/store"
)

// Criterion weights. They sum to 1.
const (
	weightStage    = 0.35
	weightSector   = 0.30
	weightLocation = 0.20
	weightSize     = 0.15
)

// DefaultTopN is the number of matches returned when the caller does
// not say otherwise.
const DefaultTopN = 10

// StartupProfile describes the startup looking for investors.
type StartupProfile struct {
	Name          string `json:"name" binding:"required"`
	Stage         string `json:"stage"`
	Location      string `json:"location"`
	Sector        string `json:"sector"`
	FundingNeeded string `json:"funding_needed"`
	Description   string `json:"description" binding:"required"`
}

// Match is one scored investor. Percentages are the scores scaled to
// 0-100 and rounded to one decimal.
type Match struct {
	Investor store.Investor `json:"investor"`

	Score         float64 `json:"-"`
	StageScore    float64 `json:"-"`
	SectorScore   float64 `json:"-"`
	LocationScore float64 `json:"-"`
	SizeScore     float64 `json:"-"`

	Percentage         float64 `json:"match_percentage"`
	StagePercentage    float64 `json:"stage_match_percentage"`
	SectorPercentage   float64 `json:"sector_match_percentage"`
	LocationPercentage float64 `json:"location_match_percentage"`
	SizePercentage     float64 `json:"investment_size_match_percentage"`
}

// Matcher ranks investors for startup profiles. Stateless and safe for
// concurrent use.
type Matcher struct{}

// New creates a matcher.
func New() *Matcher {
	return &Matcher{}
}

// Match scores every investor against the profile and returns the top
// topN matches, best first. Ties order by investor name so rankings
// are stable. A topN of 0 or less uses DefaultTopN.
func (m *Matcher) Match(investors []store.Investor, profile StartupProfile, topN int) []Match {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(investors) == 0 {
		return nil
	}

	startupText := startupSectorText(&profile)

	matches := make([]Match, 0, len(investors))
	for i := range investors {
		inv := &investors[i]

		mt := Match{
			Investor:      *inv,
			StageScore:    stageScore(inv, &profile),
			SectorScore:   sectorScore(inv, startupText),
			LocationScore: locationScore(inv, &profile),
			SizeScore:     sizeScore(inv, &profile),
		}
		mt.Score = mt.StageScore*weightStage +
			mt.SectorScore*weightSector +
			mt.LocationScore*weightLocation +
			mt.SizeScore*weightSize

		mt.Percentage = toPercent(mt.Score)
		mt.StagePercentage = toPercent(mt.StageScore)
		mt.SectorPercentage = toPercent(mt.SectorScore)
		mt.LocationPercentage = toPercent(mt.LocationScore)
		mt.SizePercentage = toPercent(mt.SizeScore)

		matches = append(matches, mt)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Investor.Name < matches[j].Investor.Name
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// toPercent scales a [0,1] score to a percentage with one decimal.
func toPercent(score float64) float64 {
	return math.Round(score*1000) / 10
}
