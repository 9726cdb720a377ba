// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scraper

import (
	"regexp"
	"strings"

	"github.com/fundlens/fundlens/services/store"
)

// investorTerms qualify a search result as investor-related.
var investorTerms = []string{"venture", "capital", "investor", "fund", "vc"}

// namePattern takes the leading run of a title before separator
// punctuation; result titles usually lead with the firm name.
var namePattern = regexp.MustCompile(`^([^|:\x{2013}-]+)`)

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)based in ([^.]+)`),
	regexp.MustCompile(`(?i)from ([^.]+)`),
	regexp.MustCompile(`(?i)located in ([^.]+)`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}\b`),
}

// focusKeywords maps snippet keywords to canonical focus labels.
var focusKeywords = []struct {
	keyword string
	label   string
}{
	{"technology", "Technology"},
	{"healthcare", "Healthcare"},
	{"fintech", "Fintech"},
	{"software", "Software"},
	{"consumer", "Consumer"},
	{"enterprise", "Enterprise"},
	{"machine learning", "Machine Learning"},
	{"saas", "SaaS"},
	{"biotech", "Biotech"},
	{"ai", "AI"},
}

// stageKeywords maps snippet keywords to canonical stage labels.
var stageKeywords = []struct {
	keyword string
	label   string
}{
	{"seed", "Seed"},
	{"early stage", "Early Stage"},
	{"series a", "Series A"},
	{"series b", "Series B"},
	{"growth", "Growth"},
	{"late stage", "Late Stage"},
}

// extractInvestor builds an investor record from one search result.
// Returns false when the result does not look investor-related.
func extractInvestor(title, snippet, sourceURL string) (store.Investor, bool) {
	lowered := strings.ToLower(title + " " + snippet)

	related := false
	for _, term := range investorTerms {
		if strings.Contains(lowered, term) {
			related = true
			break
		}
	}
	if !related {
		return store.Investor{}, false
	}

	name := title
	if m := namePattern.FindStringSubmatch(title); m != nil {
		name = m[1]
	} else if idx := strings.Index(title, "|"); idx > 0 {
		name = title[:idx]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Investor{}, false
	}

	location := "Unknown"
	for _, p := range locationPatterns {
		if m := p.FindStringSubmatch(snippet); m != nil {
			location = strings.TrimSpace(m[1])
			break
		}
	}

	var focus []string
	for _, fk := range focusKeywords {
		if strings.Contains(lowered, fk.keyword) {
			focus = append(focus, fk.label)
		}
	}

	var stages []string
	for _, sk := range stageKeywords {
		if strings.Contains(lowered, sk.keyword) {
			stages = append(stages, sk.label)
		}
	}

	invType := "Investor"
	if strings.Contains(lowered, "venture") {
		invType = "Venture Capital"
	}

	return store.Investor{
		Name:             name,
		Type:             invType,
		Location:         location,
		FocusAreas:       focus,
		InvestmentStages: stages,
		Description:      snippet,
		ProfileURL:       sourceURL,
		Scraped:          true,
	}, true
}

// extractDate pulls a publication date out of a snippet, or "Recent"
// when none is found.
func extractDate(text string) string {
	for _, p := range datePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return "Recent"
}

var (
	companyListPattern = regexp.MustCompile(`(?i)(?:companies|portfolio|investments)(?:[^.]*?):([^.]+)`)
	investedPattern    = regexp.MustCompile(`(?i)invested in ([^,.]+)`)
	companySplit       = regexp.MustCompile(`,|\sand\s`)
	sentenceSplit      = regexp.MustCompile(`[.!?]`)
)

// nonCompanyWords are list fragments that look like names but are not.
var nonCompanyWords = map[string]bool{
	"they": true, "the": true, "their": true, "these": true,
	"those": true, "other": true, "many": true, "some": true, "few": true,
}

// extractCompanyNames pulls candidate company names out of portfolio
// snippets. Heuristic, not NER: it trusts list phrasing like
// "portfolio companies: X, Y and Z" and "invested in X".
func extractCompanyNames(text string) []string {
	var candidates []string

	if m := companyListPattern.FindStringSubmatch(text); m != nil {
		for _, part := range companySplit.Split(m[1], -1) {
			if part = strings.TrimSpace(part); part != "" {
				candidates = append(candidates, part)
			}
		}
	}
	for _, m := range investedPattern.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}

	var out []string
	for _, c := range candidates {
		if len(c) <= 2 || len(strings.Fields(c)) > 4 {
			continue
		}
		if nonCompanyWords[strings.ToLower(c)] || isDigits(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// extractCompanyDescription returns the first sentence mentioning the
// company.
func extractCompanyDescription(companyName, text string) string {
	lowered := strings.ToLower(companyName)
	for _, sentence := range sentenceSplit.Split(text, -1) {
		if strings.Contains(strings.ToLower(sentence), lowered) {
			return strings.TrimSpace(sentence)
		}
	}
	return "Portfolio company"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
