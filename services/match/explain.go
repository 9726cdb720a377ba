// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package match

import (
	"fmt"
	"strings"
)

// CriterionExplanation pairs a criterion's percentage with a prose
// rationale.
type CriterionExplanation struct {
	Score   string `json:"score"`
	Details string `json:"details"`
}

// Explanation tells a founder why an investor ranked where it did.
type Explanation struct {
	OverallMatch        string               `json:"overall_match"`
	StageMatch          CriterionExplanation `json:"stage_match"`
	SectorMatch         CriterionExplanation `json:"sector_match"`
	LocationMatch       CriterionExplanation `json:"location_match"`
	InvestmentSizeMatch CriterionExplanation `json:"investment_size_match"`
	Summary             string               `json:"summary"`
}

// Explain builds a human-readable explanation for one scored match.
func (m *Matcher) Explain(mt Match, profile StartupProfile) Explanation {
	return Explanation{
		OverallMatch: fmt.Sprintf("%.1f%%", mt.Percentage),
		StageMatch: CriterionExplanation{
			Score:   fmt.Sprintf("%.1f%%", mt.StagePercentage),
			Details: explainStage(mt, profile),
		},
		SectorMatch: CriterionExplanation{
			Score:   fmt.Sprintf("%.1f%%", mt.SectorPercentage),
			Details: explainSector(mt, profile),
		},
		LocationMatch: CriterionExplanation{
			Score:   fmt.Sprintf("%.1f%%", mt.LocationPercentage),
			Details: explainLocation(mt, profile),
		},
		InvestmentSizeMatch: CriterionExplanation{
			Score:   fmt.Sprintf("%.1f%%", mt.SizePercentage),
			Details: explainSize(mt, profile),
		},
		Summary: summarize(mt),
	}
}

func explainStage(mt Match, profile StartupProfile) string {
	stage := profile.Stage
	if stage == "" {
		stage = "Not specified"
	}
	stages := mt.Investor.InvestmentStages
	if len(stages) == 0 {
		return "This investor doesn't specify preferred investment stages."
	}
	if mt.Investor.HasStage(stage) {
		return fmt.Sprintf("This investor specifically targets %s stage companies.", stage)
	}
	for _, s := range stages {
		if strings.Contains(strings.ToLower(stage), strings.ToLower(s)) {
			return fmt.Sprintf("This investor's preferred stages (%s) align with your %s stage.",
				strings.Join(stages, ", "), stage)
		}
	}
	return fmt.Sprintf("This investor typically invests in %s stages, which may not perfectly align with your %s stage.",
		strings.Join(stages, ", "), stage)
}

func explainSector(mt Match, profile StartupProfile) string {
	sector := profile.Sector
	if sector == "" {
		sector = "Not specified"
	}
	focus := mt.Investor.FocusAreas
	if len(focus) == 0 {
		return "This investor doesn't specify sector preferences."
	}

	var matching []string
	for _, f := range focus {
		if strings.Contains(strings.ToLower(sector), strings.ToLower(f)) {
			matching = append(matching, f)
		}
	}
	if len(matching) > 0 {
		return fmt.Sprintf("This investor focuses on %s, which matches your sector.",
			strings.Join(matching, ", "))
	}
	return fmt.Sprintf("This investor typically focuses on %s, which may have some overlap with your %s sector.",
		strings.Join(focus, ", "), sector)
}

func explainLocation(mt Match, profile StartupProfile) string {
	startupLoc := profile.Location
	if startupLoc == "" {
		startupLoc = "Not specified"
	}
	investorLoc := mt.Investor.Location
	if investorLoc == "" {
		investorLoc = "Not specified"
	}

	if strings.Contains(strings.ToLower(investorLoc), "global") {
		return "This investor has a global investment focus and is not limited by geography."
	}
	if strings.Contains(strings.ToLower(investorLoc), strings.ToLower(startupLoc)) {
		return fmt.Sprintf("This investor is based in %s, which includes your location (%s).",
			investorLoc, startupLoc)
	}
	loweredInvestor := strings.ToLower(investorLoc)
	for _, word := range strings.Fields(strings.ToLower(startupLoc)) {
		if strings.Contains(loweredInvestor, word) {
			return fmt.Sprintf("This investor's location (%s) has some overlap with your location (%s).",
				investorLoc, startupLoc)
		}
	}
	return fmt.Sprintf("This investor is based in %s, which is different from your location (%s).",
		investorLoc, startupLoc)
}

func explainSize(mt Match, profile StartupProfile) string {
	funding := profile.FundingNeeded
	if funding == "" {
		funding = "Not specified"
	}
	size := mt.Investor.InvestmentSize
	if size == "" {
		return "This investor doesn't specify typical investment sizes."
	}

	loweredFunding := strings.ToLower(funding)
	loweredSize := strings.ToLower(size)
	if strings.Contains(loweredSize, loweredFunding) || strings.Contains(loweredFunding, loweredSize) {
		return fmt.Sprintf("This investor's typical investment size (%s) aligns well with your funding needs (%s).",
			size, funding)
	}
	return fmt.Sprintf("This investor typically invests %s, which may be different from your funding needs (%s).",
		size, funding)
}

// summarize tiers the overall percentage into a one-line verdict.
func summarize(mt Match) string {
	name := mt.Investor.Name
	if name == "" {
		name = "This investor"
	}
	switch {
	case mt.Percentage >= 80:
		return fmt.Sprintf("Excellent match! %s is highly aligned with your startup's profile and needs.", name)
	case mt.Percentage >= 60:
		return fmt.Sprintf("Good match. %s is well-suited for your startup with some strong alignment areas.", name)
	case mt.Percentage >= 40:
		return fmt.Sprintf("Moderate match. %s has some alignment with your startup but also some differences.", name)
	default:
		return fmt.Sprintf("Limited match. %s may not be the best fit for your startup based on the criteria analyzed.", name)
	}
}
