// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analysis provides the LLM-backed analysis features: market
// sentiment tracking, financial jargon translation, and pitch deck
// content generation.
//
// Every feature talks to the configured llm.LLMClient and asks for
// structured JSON. Results that cost a model call are cached.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/fundlens/fundlens/services/cache"
	"github.com/fundlens/fundlens/services/llm"
)

// NewsSources are the venture news pages the sentiment tracker reads.
var NewsSources = map[string]string{
	"techcrunch":  "https://techcrunch.com/venture/",
	"venturebeat": "https://venturebeat.com/venture/",
	"reuters_vc":  "https://www.reuters.com/markets/venture-capital/",
}

// sentimentCacheTTL keeps analyses fresh without re-paying the model
// on every dashboard load.
const sentimentCacheTTL = 30 * time.Minute

// sourceUpdateInterval is how long a source's latest snapshot counts as
// current before Track refetches it.
const sourceUpdateInterval = 30 * time.Minute

// sentimentHistoryLimit bounds the in-memory snapshot timeline.
const sentimentHistoryLimit = 100

// maxPromptChars bounds how much article text goes into the prompt.
const maxPromptChars = 1000

// NewsArticle is the extracted text of one news page.
type NewsArticle struct {
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// SentimentReport is the model's structured read of one article.
type SentimentReport struct {
	SentimentScore  float64  `json:"sentiment_score"`
	Trends          []string `json:"trends"`
	ConfidenceLevel float64  `json:"confidence_level"`
	Sectors         []string `json:"sectors"`
	Insights        []string `json:"insights"`

	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// SentimentTracker fetches venture news and scores market sentiment.
// Snapshots accumulate in a bounded in-memory timeline so the dashboard
// can show movement, not just the latest read.
type SentimentTracker struct {
	client     llm.LLMClient
	httpClient *http.Client
	cache      *cache.Cache
	sources    map[string]string

	mu         sync.Mutex
	history    []SentimentReport
	lastUpdate map[string]time.Time
}

// NewSentimentTracker creates a tracker. The cache may be nil, in which
// case every call pays a model round trip.
func NewSentimentTracker(client llm.LLMClient, c *cache.Cache) *SentimentTracker {
	return &SentimentTracker{
		client:     client,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      c,
		sources:    NewsSources,
		lastUpdate: make(map[string]time.Time),
	}
}

// SetSources replaces the configured news source set.
func (t *SentimentTracker) SetSources(sources map[string]string) {
	t.sources = sources
}

// FetchMarketNews downloads and extracts article text from the named
// sources. An empty list means every configured source. Unknown names
// are skipped; a failed fetch logs and moves on so one dead source
// doesn't blank the tracker.
func (t *SentimentTracker) FetchMarketNews(ctx context.Context, sources []string) []NewsArticle {
	var items []NewsArticle
	for _, name := range t.resolveSources(sources) {
		url, ok := t.sources[name]
		if !ok {
			continue
		}
		text, err := t.fetchArticleText(ctx, url)
		if err != nil {
			slog.Warn("failed to fetch news source", "source", name, "error", err)
			continue
		}
		if text == "" {
			continue
		}
		items = append(items, NewsArticle{
			Source:    name,
			Content:   text,
			URL:       url,
			Timestamp: time.Now().UTC(),
		})
	}
	return items
}

// AnalyzeSentiment scores one article's text. Identical texts hit the
// cache.
func (t *SentimentTracker) AnalyzeSentiment(ctx context.Context, article NewsArticle) (*SentimentReport, error) {
	key := "sentiment:" + article.Source + ":" + contentHash(article.Content)
	if t.cache != nil {
		var cached SentimentReport
		if err := t.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("sentiment cache read failed", "error", err)
		}
	}

	text := article.Content
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	prompt := fmt.Sprintf(`Analyze the market sentiment in this text, focusing on venture capital and startup investment trends:
%s

Provide a JSON response with:
1. Sentiment score (-1 to 1)
2. Key trends identified
3. Market confidence level (0-100)
4. Primary sectors mentioned
5. Notable concerns or opportunities

Format as JSON with these keys:
sentiment_score, trends, confidence_level, sectors, insights`, text)

	var report SentimentReport
	if err := llm.GenerateJSON(ctx, t.client, prompt, analysisParams(), &report); err != nil {
		return nil, fmt.Errorf("sentiment analysis: %w", err)
	}
	// Models occasionally hand back scores on the wrong scale.
	report.SentimentScore = clamp(report.SentimentScore, -1, 1)
	report.ConfidenceLevel = clamp(report.ConfidenceLevel, 0, 100)
	report.Source = article.Source
	report.Timestamp = article.Timestamp

	if t.cache != nil {
		if err := t.cache.SetJSON(ctx, key, report, sentimentCacheTTL); err != nil {
			slog.Warn("sentiment cache write failed", "error", err)
		}
	}
	return &report, nil
}

// Track returns a current report per requested source, refetching only
// sources whose last snapshot is older than the update interval. An
// empty list tracks every configured source. Fresh reports are appended
// to the timeline.
func (t *SentimentTracker) Track(ctx context.Context, sources []string) ([]SentimentReport, error) {
	names := t.resolveSources(sources)

	var reports []SentimentReport
	var stale []string
	t.mu.Lock()
	for _, name := range names {
		if last, ok := t.lastUpdate[name]; ok && time.Since(last) < sourceUpdateInterval {
			if latest, ok := t.latestLocked(name); ok {
				reports = append(reports, latest)
				continue
			}
		}
		stale = append(stale, name)
	}
	t.mu.Unlock()

	if len(stale) > 0 {
		for _, article := range t.FetchMarketNews(ctx, stale) {
			report, err := t.AnalyzeSentiment(ctx, article)
			if err != nil {
				slog.Warn("sentiment analysis failed for source", "source", article.Source, "error", err)
				continue
			}
			reports = append(reports, *report)
			t.record(*report)
		}
	}
	if len(reports) == 0 {
		return nil, errors.New("no sentiment reports available for the requested sources")
	}
	return reports, nil
}

// History returns the snapshot timeline, oldest first.
func (t *SentimentTracker) History() []SentimentReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SentimentReport, len(t.history))
	copy(out, t.history)
	return out
}

// record appends a snapshot to the timeline, evicting the oldest
// entries past the limit, and stamps the source as freshly updated.
func (t *SentimentTracker) record(report SentimentReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, report)
	if len(t.history) > sentimentHistoryLimit {
		t.history = t.history[len(t.history)-sentimentHistoryLimit:]
	}
	t.lastUpdate[report.Source] = time.Now()
}

// latestLocked returns the newest snapshot for a source. Callers hold
// mu.
func (t *SentimentTracker) latestLocked(source string) (SentimentReport, bool) {
	for i := len(t.history) - 1; i >= 0; i-- {
		if t.history[i].Source == source {
			return t.history[i], true
		}
	}
	return SentimentReport{}, false
}

// resolveSources expands an empty source list to every configured
// source, in stable order.
func (t *SentimentTracker) resolveSources(sources []string) []string {
	if len(sources) > 0 {
		return sources
	}
	names := make([]string, 0, len(t.sources))
	for name := range t.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Refresh expires the named sources (all of them when the list is
// empty) and drops their cached analyses so the next Track call
// re-scores them.
func (t *SentimentTracker) Refresh(ctx context.Context, sources []string) {
	names := t.resolveSources(sources)

	t.mu.Lock()
	for _, name := range names {
		delete(t.lastUpdate, name)
	}
	t.mu.Unlock()

	if t.cache == nil {
		return
	}
	for _, name := range names {
		url, ok := t.sources[name]
		if !ok {
			continue
		}
		// Cached entries are keyed by content hash, which we cannot
		// know without refetching. Refetch and drop the matching key.
		text, err := t.fetchArticleText(ctx, url)
		if err != nil || text == "" {
			continue
		}
		_ = t.cache.Delete(ctx, "sentiment:"+name+":"+contentHash(text))
	}
}

// SectorSentiment averages sentiment per sector across reports.
func SectorSentiment(reports []SentimentReport) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range reports {
		for _, sector := range r.Sectors {
			sums[sector] += r.SentimentScore
			counts[sector]++
		}
	}
	avg := make(map[string]float64, len(sums))
	for sector, sum := range sums {
		avg[sector] = sum / float64(counts[sector])
	}
	return avg
}

func (t *SentimentTracker) fetchArticleText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return extractArticleText(io.LimitReader(resp.Body, 2<<20))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}

func analysisParams() llm.GenerationParams {
	temp := float32(0.2)
	return llm.GenerationParams{Temperature: &temp}
}
