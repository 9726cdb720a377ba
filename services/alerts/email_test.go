// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package alerts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundlens/fundlens/services/llm"
	"github.com/fundlens/fundlens/services/store"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ llm.GenerationParams) (string, error) {
	f.calls++
	return f.response, f.err
}

func sampleAlert() store.Alert {
	return store.Alert{
		ID:        "a-1",
		UserEmail: "founder@example.com",
		Name:      "Dana's new investors alert",
		Type:      "new_investors",
		Frequency: "daily",
		Criteria: store.AlertCriteria{
			InvestorTypes: []string{"Venture Capital"},
			Sectors:       []string{"SaaS", "AI/ML"},
		},
	}
}

func sampleUser() store.AlertUser {
	return store.AlertUser{Email: "founder@example.com", Name: "Dana"}
}

func sampleMatches() []store.Investor {
	return []store.Investor{
		{
			Name:             "Granite Ventures",
			Type:             "Venture Capital",
			Location:         "Boston, MA",
			Investments:      120,
			InvestmentStages: []string{"Seed", "Series A"},
		},
		{
			Name:             "Harbor Capital",
			Type:             "Venture Capital",
			Location:         "New York, NY",
			Investments:      80,
			InvestmentStages: []string{"Series A"},
		},
	}
}

func TestAlertEmailTemplateFallback(t *testing.T) {
	r := NewRenderer(nil, "")
	subject, body := r.AlertEmail(context.Background(), sampleAlert(), sampleUser(), sampleMatches())

	assert.Equal(t, "Dana's new investors alert", subject)
	assert.Contains(t, body, "Hello Dana")
	assert.Contains(t, body, "We've found 2 investors")
	assert.Contains(t, body, "Granite Ventures")
	assert.Contains(t, body, "Seed, Series A")
	assert.Contains(t, body, "https://app.fundlens.dev")
}

func TestAlertEmailPersonalized(t *testing.T) {
	client := &fakeLLM{response: "<html><body><p>Hi Dana, great news.</p></body></html>"}
	r := NewRenderer(client, "")

	_, body := r.AlertEmail(context.Background(), sampleAlert(), sampleUser(), sampleMatches())
	assert.Equal(t, client.response, body)
	assert.Equal(t, 1, client.calls)
}

func TestAlertEmailFallsBackOnModelError(t *testing.T) {
	client := &fakeLLM{err: errors.New("backend down")}
	r := NewRenderer(client, "")

	_, body := r.AlertEmail(context.Background(), sampleAlert(), sampleUser(), sampleMatches())
	assert.Contains(t, body, "Hello Dana")
	assert.Contains(t, body, "Granite Ventures")
}

func TestAlertEmailCapsListedInvestors(t *testing.T) {
	investors := make([]store.Investor, 8)
	for i := range investors {
		investors[i] = store.Investor{Name: strings.Repeat("x", i+1), Type: "Venture Capital"}
	}

	r := NewRenderer(nil, "")
	_, body := r.AlertEmail(context.Background(), sampleAlert(), sampleUser(), investors)

	assert.Contains(t, body, "found 8 investors")
	assert.NotContains(t, body, strings.Repeat("x", 6))
}

func TestTestEmail(t *testing.T) {
	r := NewRenderer(nil, "")
	subject, body := r.TestEmail(sampleAlert(), sampleUser())

	assert.Equal(t, "Test Alert from FundLens", subject)
	assert.Contains(t, body, "Test Alert: Dana&#39;s new investors alert")
	assert.Contains(t, body, "Alert type: New Investors")
	assert.Contains(t, body, "Frequency: Daily")
	assert.Contains(t, body, "Venture Capital")
	assert.Contains(t, body, "SaaS, AI/ML")
}

func TestTitleize(t *testing.T) {
	require.Equal(t, "New Investors", titleize("new_investors"))
	require.Equal(t, "Weekly", titleize("weekly"))
	require.Equal(t, "", titleize(""))
}
