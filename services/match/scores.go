// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package match

import (
	"math"
	"sort"
	"strings"

	"github.com/fundlens/fundlens/services/store"
)

// neutralScore applies when an investor does not state a preference for
// a criterion.
const neutralScore = 0.5

// stageAliases maps startup stage descriptions to the standardized
// stages an investor list would use. Matching is by substring, in
// order, and a description can hit several aliases ("Pre-Seed" hits
// both "pre-seed" and "seed").
var stageAliases = []struct {
	alias  string
	stages []string
}{
	{"idea", []string{"Pre-Seed"}},
	{"prototype", []string{"Pre-Seed", "Seed"}},
	{"mvp", []string{"Pre-Seed", "Seed"}},
	{"pre-seed", []string{"Pre-Seed", "Seed"}},
	{"seed", []string{"Seed", "Pre-Seed"}},
	{"early revenue", []string{"Seed", "Series A"}},
	{"series a", []string{"Series A", "Seed"}},
	{"growth", []string{"Series A", "Series B"}},
	{"series b", []string{"Series B", "Series A", "Series C"}},
	{"series c", []string{"Series C", "Series B", "Growth"}},
	{"expansion", []string{"Growth", "Series C", "Late Stage"}},
	{"late stage", []string{"Late Stage", "Growth"}},
}

// countryAliases groups location keywords into country or region
// buckets for the mid-tier location score.
var countryAliases = []struct {
	country string
	aliases []string
}{
	{"us", []string{"united states", "usa", "america"}},
	{"uk", []string{"united kingdom", "britain", "england"}},
	{"canada", []string{"canada"}},
	{"europe", []string{"europe", "eu", "european union"}},
	{"asia", []string{"asia", "asian"}},
	{"australia", []string{"australia", "oceania"}},
	{"africa", []string{"africa", "african"}},
	{"south america", []string{"south america", "latin america"}},
}

// bracketRange is a funding bracket in dollars. Max of 0 means
// unbounded.
type bracketRange struct {
	label string
	min   float64
	max   float64
}

var bracketRanges = []bracketRange{
	{"< $100k", 0, 100_000},
	{"$100k-$500k", 100_000, 500_000},
	{"$500k-$1m", 500_000, 1_000_000},
	{"$1m-$5m", 1_000_000, 5_000_000},
	{"$5m-$10m", 5_000_000, 10_000_000},
	{"> $10m", 10_000_000, math.Inf(1)},
}

// standardizedStages expands a startup's stage description into the
// stages it should be matched against. Unknown descriptions fall back
// to every stage.
func standardizedStages(startupStage string) []string {
	lowered := strings.ToLower(startupStage)

	var out []string
	for _, m := range stageAliases {
		if strings.Contains(lowered, m.alias) {
			out = append(out, m.stages...)
		}
	}
	if len(out) == 0 {
		out = append(out, store.InvestmentStages...)
	}
	return out
}

// stageScore is the fraction of the startup's standardized stages that
// the investor covers.
func stageScore(inv *store.Investor, profile *StartupProfile) float64 {
	if len(inv.InvestmentStages) == 0 {
		return neutralScore
	}

	wanted := standardizedStages(profile.Stage)
	matches := 0
	for _, stage := range wanted {
		if inv.HasStage(stage) {
			matches++
		}
	}
	return float64(matches) / float64(len(wanted))
}

// startupSectorText distills a profile's sector and description into
// the text used for sector similarity. Known sector labels are
// preferred; with none recognized the longer words of the raw text
// stand in.
func startupSectorText(profile *StartupProfile) string {
	text := profile.Sector + " " + profile.Description
	lowered := strings.ToLower(text)

	var sectors []string
	for _, sector := range store.Sectors {
		if strings.Contains(lowered, strings.ToLower(sector)) {
			sectors = append(sectors, sector)
		}
	}
	if len(sectors) > 0 {
		return strings.Join(sectors, " ")
	}

	seen := make(map[string]bool)
	var words []string
	for _, w := range strings.Fields(lowered) {
		if len(w) > 3 && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}

// sectorScore is TF-IDF cosine similarity between the startup's sector
// text and the investor's focus areas, clamped to [0,1]. Word-overlap
// Jaccard stands in when either side yields no scorable tokens.
func sectorScore(inv *store.Investor, startupText string) float64 {
	investorText := strings.Join(inv.FocusAreas, " ")
	if investorText == "" {
		return neutralScore
	}

	sim := tfidfCosine(startupText, investorText)
	if sim == 0 && (len(tokenize(startupText)) == 0 || len(tokenize(investorText)) == 0) {
		sim = jaccard(startupText, investorText)
	}
	return math.Max(0, math.Min(1, sim))
}

// locationScore tiers geography alignment: direct substring match 1.0,
// same country or region 0.8, global or unstated investor 0.6,
// otherwise 0.4.
func locationScore(inv *store.Investor, profile *StartupProfile) float64 {
	startupLoc := strings.ToLower(profile.Location)
	investorLoc := strings.ToLower(inv.Location)

	if startupLoc != "" && (strings.Contains(investorLoc, startupLoc) || strings.Contains(startupLoc, investorLoc)) {
		return 1.0
	}

	if country := countryOf(startupLoc); country != "" {
		for _, c := range countryAliases {
			if c.country != country {
				continue
			}
			for _, alias := range c.aliases {
				if strings.Contains(investorLoc, alias) {
					return 0.8
				}
			}
		}
	}

	if investorLoc == "" || strings.Contains(investorLoc, "global") {
		return 0.6
	}
	return 0.4
}

func countryOf(location string) string {
	for _, c := range countryAliases {
		for _, alias := range c.aliases {
			if strings.Contains(location, alias) {
				return c.country
			}
		}
	}
	return ""
}

// parseBracket resolves a free-form funding description to a dollar
// range via substring match against the known bracket labels.
func parseBracket(text string) (min, max float64, ok bool) {
	lowered := strings.ToLower(text)
	for _, b := range bracketRanges {
		if strings.Contains(lowered, b.label) {
			return b.min, b.max, true
		}
	}
	return 0, math.Inf(1), false
}

// sizeScore measures overlap between the startup's funding bracket and
// the investor's typical check size. No overlap scores 0.2; an
// unbounded startup range with any overlap scores 0.7.
func sizeScore(inv *store.Investor, profile *StartupProfile) float64 {
	if inv.InvestmentSize == "" {
		return neutralScore
	}

	startupMin, startupMax, _ := parseBracket(profile.FundingNeeded)
	investorMin, investorMax, _ := parseBracket(inv.InvestmentSize)

	overlapMin := math.Max(startupMin, investorMin)
	overlapMax := math.Min(startupMax, investorMax)
	if overlapMax <= overlapMin {
		return 0.2
	}

	startupRange := startupMax - startupMin
	if math.IsInf(startupRange, 1) {
		startupRange = investorMax - investorMin
	}
	if math.IsInf(startupRange, 1) {
		return 0.7
	}
	return math.Min(1.0, (overlapMax-overlapMin)/startupRange)
}
