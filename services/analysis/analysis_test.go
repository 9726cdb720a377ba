// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundlens/fundlens/services/cache"
	"github.com/fundlens/fundlens/services/llm"
	"github.com/fundlens/fundlens/services/store"
)

// scriptedLLM returns canned responses, counting calls and keeping the
// last prompt for assertions.
type scriptedLLM struct {
	response   string
	calls      int
	lastPrompt string
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, nil
}

func testCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(cache.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAnalyzeSentiment(t *testing.T) {
	model := &scriptedLLM{response: `{
		"sentiment_score": 0.4,
		"trends": ["AI funding rebound"],
		"confidence_level": 72,
		"sectors": ["AI/ML", "Fintech"],
		"insights": ["Late-stage rounds are recovering"]
	}`}
	tracker := NewSentimentTracker(model, testCache(t))

	article := NewsArticle{Source: "techcrunch", Content: "Venture funding is recovering across AI."}
	report, err := tracker.AnalyzeSentiment(context.Background(), article)
	require.NoError(t, err)

	assert.InDelta(t, 0.4, report.SentimentScore, 1e-9)
	assert.InDelta(t, 72, report.ConfidenceLevel, 1e-9)
	assert.Equal(t, []string{"AI/ML", "Fintech"}, report.Sectors)
	assert.Equal(t, "techcrunch", report.Source)

	t.Run("second call hits the cache", func(t *testing.T) {
		_, err := tracker.AnalyzeSentiment(context.Background(), article)
		require.NoError(t, err)
		assert.Equal(t, 1, model.calls)
	})
}

// newsPage is long enough for the article extractor to keep its
// paragraphs.
const newsPage = `<html><body><article>
<h1>Venture funding rebounds in the second quarter</h1>
<p>Investors deployed more capital this quarter than any period since 2022.</p>
<p>Seed rounds in particular grew faster than the broader market average.</p>
</article></body></html>`

func TestTrack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(newsPage))
	}))
	defer srv.Close()

	model := &scriptedLLM{response: `{
		"sentiment_score": 3.5,
		"trends": ["AI funding rebound"],
		"confidence_level": 250,
		"sectors": ["AI/ML"],
		"insights": []
	}`}
	tracker := NewSentimentTracker(model, nil)
	tracker.SetSources(map[string]string{"alpha": srv.URL, "beta": srv.URL})

	reports, err := tracker.Track(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, reports, 2, "empty source list covers every configured source")

	t.Run("out-of-range model values are clamped", func(t *testing.T) {
		for _, r := range reports {
			assert.InDelta(t, 1.0, r.SentimentScore, 1e-9)
			assert.InDelta(t, 100.0, r.ConfidenceLevel, 1e-9)
		}
	})

	t.Run("snapshots land on the timeline", func(t *testing.T) {
		assert.Len(t, tracker.History(), 2)
	})

	t.Run("fresh sources are served from the timeline", func(t *testing.T) {
		calls := model.calls
		again, err := tracker.Track(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, again, 2)
		assert.Equal(t, calls, model.calls)
		assert.Len(t, tracker.History(), 2)
	})

	t.Run("refresh expires the sources", func(t *testing.T) {
		calls := model.calls
		tracker.Refresh(context.Background(), nil)
		again, err := tracker.Track(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, again, 2)
		assert.Equal(t, calls+2, model.calls)
		assert.Len(t, tracker.History(), 4)
	})
}

func TestSectorSentiment(t *testing.T) {
	reports := []SentimentReport{
		{SentimentScore: 0.5, Sectors: []string{"Fintech", "SaaS"}},
		{SentimentScore: -0.1, Sectors: []string{"Fintech"}},
	}
	avg := SectorSentiment(reports)

	assert.InDelta(t, 0.2, avg["Fintech"], 1e-9)
	assert.InDelta(t, 0.5, avg["SaaS"], 1e-9)
}

func TestExtractArticleText(t *testing.T) {
	page := `<html><head><script>var x=1;</script><style>p{}</style></head>
	<body>
	<nav><p>Navigation menu with many links to other sections</p></nav>
	<article>
	<h1>Venture funding rebounds in the second quarter</h1>
	<p>Investors deployed more capital this quarter than any period since 2022.</p>
	<p>Short.</p>
	</article>
	<footer><p>Copyright notice and subscription links for the site</p></footer>
	</body></html>`

	text, err := extractArticleText(strings.NewReader(page))
	require.NoError(t, err)

	assert.Contains(t, text, "Venture funding rebounds")
	assert.Contains(t, text, "deployed more capital")
	assert.NotContains(t, text, "Navigation menu")
	assert.NotContains(t, text, "Copyright notice")
	assert.NotContains(t, text, "Short.")
}

func TestTranslate(t *testing.T) {
	model := &scriptedLLM{response: "```json\n" + `{
		"simple_explanation": "A loan that can turn into shares later.",
		"key_terms": {"Convertible Note": "Debt that converts to equity"},
		"example": "An angel lends $100K that converts at the next round.",
		"context": "Common in early fundraising."
	}` + "\n```"}
	tr := NewTranslator(model, testCache(t))

	got, err := tr.Translate(context.Background(), "Convertible Note")
	require.NoError(t, err)
	assert.Contains(t, got.SimpleExplanation, "loan")
	assert.Equal(t, "Debt that converts to equity", got.KeyTerms["Convertible Note"])

	t.Run("cache short-circuits repeat translations", func(t *testing.T) {
		_, err := tr.Translate(context.Background(), "Convertible Note")
		require.NoError(t, err)
		assert.Equal(t, 1, model.calls)
	})

	t.Run("empty input errors", func(t *testing.T) {
		_, err := tr.Translate(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestPitchDeckContent(t *testing.T) {
	model := &scriptedLLM{response: `{
		"executive_summary": "A platform for founders.",
		"value_props": ["Fast", "Accurate", "Cheap"],
		"market_opportunity": ["Large TAM"],
		"competitive_advantages": ["Proprietary data"],
		"investment_ask": "Raising $2M seed."
	}`}
	gen := NewPitchDeckGenerator(model)

	investors := []store.Investor{
		{Name: "A", Type: "Venture Capital", Location: "Boston, US", InvestmentStages: []string{"Seed"}},
		{Name: "B", Type: "Accelerator", Location: "Boston, US", InvestmentStages: []string{"Pre-Seed"}},
	}
	inputs := PitchDeckInputs{
		FocusAreas:    []string{"Fintech"},
		Stage:         "Seed",
		FundingNeeded: "$2M",
	}
	content, err := gen.ContentSuggestions(context.Background(), investors, inputs)
	require.NoError(t, err)
	assert.Len(t, content.ValueProps, 3)
	assert.Equal(t, "Raising $2M seed.", content.InvestmentAsk)

	t.Run("startup inputs reach the prompt", func(t *testing.T) {
		assert.Contains(t, model.lastPrompt, `"startup_stage": "Seed"`)
		assert.Contains(t, model.lastPrompt, `"funding_needed": "$2M"`)
	})

	t.Run("no investors errors", func(t *testing.T) {
		_, err := gen.ContentSuggestions(context.Background(), nil, PitchDeckInputs{})
		assert.Error(t, err)
	})
}

func TestSummarizeInvestors(t *testing.T) {
	investors := []store.Investor{
		{Type: "Venture Capital", Location: "Boston, US", InvestmentStages: []string{"Seed", "Series A"}},
		{Type: "Venture Capital", Location: "Boston, US", InvestmentStages: []string{"Seed"}},
		{Type: "Accelerator", Location: "Austin, US", InvestmentStages: []string{"Pre-Seed"}},
	}
	summary := summarizeInvestors(investors, PitchDeckInputs{
		FocusAreas:    []string{"SaaS"},
		Stage:         "Pre-Seed",
		FundingNeeded: "$500K",
	})

	assert.Equal(t, 2, summary.Types["Venture Capital"])
	assert.Equal(t, 2, summary.Locations["Boston, US"])
	assert.Equal(t, []string{"Pre-Seed", "Seed", "Series A"}, summary.Stages)
	assert.Equal(t, []string{"SaaS"}, summary.FocusAreas)
	assert.Equal(t, "Pre-Seed", summary.StartupStage)
	assert.Equal(t, "$500K", summary.FundingNeeded)
}

func TestPitchDeckDesign(t *testing.T) {
	model := &scriptedLLM{response: `{
		"colors": ["#0B3954", "#BFD7EA", "#FF6663"],
		"layout": "One idea per slide.",
		"visuals": "Simple charts over stock photos.",
		"typography": "Inter for headings, Source Serif for body."
	}`}
	gen := NewPitchDeckGenerator(model)

	design, err := gen.DesignSuggestions(context.Background(), &PitchDeckContent{ExecutiveSummary: "x"})
	require.NoError(t, err)
	assert.Len(t, design.Colors, 3)
}
