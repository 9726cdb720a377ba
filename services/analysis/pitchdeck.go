// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/fundlens/fundlens/services/llm"
	"github.com/fundlens/fundlens/services/store"
)

// PitchDeckContent is the model's suggested deck content.
type PitchDeckContent struct {
	ExecutiveSummary      string   `json:"executive_summary"`
	ValueProps            []string `json:"value_props"`
	MarketOpportunity     []string `json:"market_opportunity"`
	CompetitiveAdvantages []string `json:"competitive_advantages"`
	InvestmentAsk         string   `json:"investment_ask"`
}

// PitchDeckDesign is the model's suggested visual treatment.
type PitchDeckDesign struct {
	Colors     []string `json:"colors"`
	Layout     string   `json:"layout"`
	Visuals    string   `json:"visuals"`
	Typography string   `json:"typography"`
}

// PitchDeckInputs captures the startup side of the prompt.
type PitchDeckInputs struct {
	FocusAreas    []string `json:"focus_areas"`
	Stage         string   `json:"stage"`
	FundingNeeded string   `json:"funding_needed"`
}

// investorSummary condenses an investor set for the prompt: type
// counts, the five most common locations, the union of stages, and the
// startup's own inputs.
type investorSummary struct {
	Types      map[string]int `json:"types"`
	Locations  map[string]int `json:"locations"`
	Stages     []string       `json:"stages"`
	FocusAreas []string       `json:"focus_areas"`

	StartupStage  string `json:"startup_stage,omitempty"`
	FundingNeeded string `json:"funding_needed,omitempty"`
}

// PitchDeckGenerator builds deck suggestions tuned to a target investor
// set.
type PitchDeckGenerator struct {
	client llm.LLMClient
}

// NewPitchDeckGenerator creates a generator.
func NewPitchDeckGenerator(client llm.LLMClient) *PitchDeckGenerator {
	return &PitchDeckGenerator{client: client}
}

// ContentSuggestions asks the model for deck content aimed at the
// given investors and shaped by the startup's focus areas, stage, and
// funding ask.
func (g *PitchDeckGenerator) ContentSuggestions(ctx context.Context, investors []store.Investor, inputs PitchDeckInputs) (*PitchDeckContent, error) {
	if len(investors) == 0 {
		return nil, errors.New("no investors to tailor the deck to")
	}

	summary := summarizeInvestors(investors, inputs)
	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode investor summary: %w", err)
	}

	prompt := fmt.Sprintf(`Generate pitch deck content suggestions based on this investor data and startup profile:
%s

Please provide:
1. Executive Summary (2-3 sentences)
2. Key Value Propositions (3 points)
3. Market Opportunity (2-3 points)
4. Competitive Advantages (2-3 points)
5. Investment Ask (1-2 sentences)

Format as JSON with these keys:
executive_summary, value_props, market_opportunity, competitive_advantages, investment_ask`, summaryJSON)

	var content PitchDeckContent
	if err := llm.GenerateJSON(ctx, g.client, prompt, analysisParams(), &content); err != nil {
		return nil, fmt.Errorf("pitch deck content: %w", err)
	}
	return &content, nil
}

// DesignSuggestions asks the model for a visual treatment matching the
// generated content.
func (g *PitchDeckGenerator) DesignSuggestions(ctx context.Context, content *PitchDeckContent) (*PitchDeckDesign, error) {
	contentJSON, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode deck content: %w", err)
	}

	prompt := fmt.Sprintf(`Based on this pitch deck content:
%s

Provide design suggestions for:
1. Color scheme (3 colors)
2. Layout recommendations
3. Visual elements
4. Typography pairing

Format as JSON with these keys:
colors, layout, visuals, typography`, contentJSON)

	var design PitchDeckDesign
	if err := llm.GenerateJSON(ctx, g.client, prompt, analysisParams(), &design); err != nil {
		return nil, fmt.Errorf("pitch deck design: %w", err)
	}
	return &design, nil
}

func summarizeInvestors(investors []store.Investor, inputs PitchDeckInputs) investorSummary {
	summary := investorSummary{
		Types:         make(map[string]int),
		FocusAreas:    inputs.FocusAreas,
		StartupStage:  inputs.Stage,
		FundingNeeded: inputs.FundingNeeded,
	}

	locations := make(map[string]int)
	stageSet := make(map[string]bool)
	for _, inv := range investors {
		if inv.Type != "" {
			summary.Types[inv.Type]++
		}
		if inv.Location != "" {
			locations[inv.Location]++
		}
		for _, stage := range inv.InvestmentStages {
			stageSet[stage] = true
		}
	}

	// Keep the five most common locations.
	type locCount struct {
		loc string
		n   int
	}
	sorted := make([]locCount, 0, len(locations))
	for loc, n := range locations {
		sorted = append(sorted, locCount{loc, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].n != sorted[j].n {
			return sorted[i].n > sorted[j].n
		}
		return sorted[i].loc < sorted[j].loc
	})
	summary.Locations = make(map[string]int)
	for i, lc := range sorted {
		if i >= 5 {
			break
		}
		summary.Locations[lc.loc] = lc.n
	}

	for _, stage := range store.InvestmentStages {
		if stageSet[stage] {
			summary.Stages = append(summary.Stages, stage)
		}
	}
	return summary
}
