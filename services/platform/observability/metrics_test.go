// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics(t *testing.T) {
	m := InitMetrics()
	require.NotNil(t, m)
	assert.Same(t, DefaultMetrics, m)

	assert.NotNil(t, m.SearchesTotal)
	assert.NotNil(t, m.ScrapeRequestsTotal)
	assert.NotNil(t, m.LLMCallsTotal)
	assert.NotNil(t, m.LLMLatencySeconds)
	assert.NotNil(t, m.AlertCyclesTotal)
	assert.NotNil(t, m.AlertEmailsTotal)
	assert.NotNil(t, m.ActiveScrapes)
}

func TestInitMetrics_SecondCallReturnsSameInstance(t *testing.T) {
	first := InitMetrics()
	second := InitMetrics()
	assert.Same(t, first, second)
}

func TestHelpers_NilReceiverIsSafe(t *testing.T) {
	var m *PlatformMetrics

	assert.NotPanics(t, func() {
		m.RecordSearch("local", true)
		m.RecordScrape("investors", false)
		m.RecordLLMCall("sentiment", 1.5, true)
		m.RecordAlertCycle(3, 1)
		m.ScrapeStarted()
		m.ScrapeEnded()
	})
}

func TestHelpers_RecordOnLiveInstance(t *testing.T) {
	m := InitMetrics()

	assert.NotPanics(t, func() {
		m.RecordSearch("combined", true)
		m.RecordSearch("cache", false)
		m.RecordScrape("news", true)
		m.RecordLLMCall("translation", 2.0, false)
		m.RecordAlertCycle(0, 0)
		m.ScrapeStarted()
		m.ScrapeEnded()
	})
}
