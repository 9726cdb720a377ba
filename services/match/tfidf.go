// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package match

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern keeps alphanumeric runs of two or more characters,
// lowercased. "AI/ML" tokenizes to [ai ml].
var tokenPattern = regexp.MustCompile(`\w\w+`)

// englishStopwords are dropped before similarity scoring.
var englishStopwords = map[string]bool{
	"a": true, "about": true, "an": true, "and": true, "are": true,
	"as": true, "at": true, "be": true, "by": true, "for": true,
	"from": true, "has": true, "have": true, "in": true, "is": true,
	"it": true, "its": true, "of": true, "on": true, "or": true,
	"our": true, "that": true, "the": true, "their": true, "this": true,
	"to": true, "was": true, "we": true, "were": true, "which": true,
	"will": true, "with": true, "your": true,
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if !englishStopwords[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// tfidfCosine computes cosine similarity between two documents using
// TF-IDF weights over the two-document corpus. IDF is smoothed:
// idf(t) = ln((1+n)/(1+df)) + 1 with n=2, and vectors are
// L2-normalized, so shared terms weigh less than terms unique to one
// document.
func tfidfCosine(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	tfA := termCounts(tokensA)
	tfB := termCounts(tokensB)

	idf := func(term string) float64 {
		df := 0
		if tfA[term] > 0 {
			df++
		}
		if tfB[term] > 0 {
			df++
		}
		return math.Log(3.0/float64(1+df)) + 1
	}

	var dot, normA, normB float64
	for term, countA := range tfA {
		wA := float64(countA) * idf(term)
		normA += wA * wA
		if countB, ok := tfB[term]; ok {
			dot += wA * float64(countB) * idf(term)
		}
	}
	for term, countB := range tfB {
		wB := float64(countB) * idf(term)
		normB += wB * wB
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// jaccard computes word-set intersection over union. Used as the
// simple-overlap fallback when either side has no scorable tokens.
func jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0.5
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.5
	}
	return float64(intersection) / float64(union)
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		set[tok] = true
	}
	return set
}
