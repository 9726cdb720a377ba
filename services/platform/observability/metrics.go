// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the platform.
//
// Metrics cover the main request paths: investor searches, web scrape
// calls, language-model calls, and alert delivery cycles. They are
// exposed via the /metrics endpoint for Prometheus scraping.
//
// All metric operations are thread-safe via Prometheus's internal
// locking.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

const metricsNamespace = "fundlens"

const platformSubsystem = "platform"

// PlatformMetrics holds all Prometheus metrics for the platform.
//
// Initialize at startup via InitMetrics. Helper methods accept a nil
// receiver and record nothing.
type PlatformMetrics struct {
	// SearchesTotal counts investor searches.
	// Labels: source (local, combined, cache), status (success, error)
	SearchesTotal *prometheus.CounterVec

	// ScrapeRequestsTotal counts web scrape operations.
	// Labels: kind (investors, news, portfolio), status (success, error)
	ScrapeRequestsTotal *prometheus.CounterVec

	// LLMCallsTotal counts language-model requests.
	// Labels: operation (sentiment, translation, pitchdeck, alert_email),
	// status (success, error)
	LLMCallsTotal *prometheus.CounterVec

	// LLMLatencySeconds measures language-model request latency.
	// Labels: operation
	LLMLatencySeconds *prometheus.HistogramVec

	// AlertCyclesTotal counts completed alert scheduler cycles.
	AlertCyclesTotal prometheus.Counter

	// AlertEmailsTotal counts alert emails by outcome.
	// Labels: status (sent, failed)
	AlertEmailsTotal *prometheus.CounterVec

	// ActiveScrapes tracks in-flight scrape operations.
	ActiveScrapes prometheus.Gauge
}

// DefaultMetrics is the singleton instance, set by InitMetrics.
var DefaultMetrics *PlatformMetrics

var initOnce sync.Once

// InitMetrics creates and registers all platform metrics. Safe to call
// more than once; registration happens on the first call.
func InitMetrics() *PlatformMetrics {
	initOnce.Do(registerMetrics)
	return DefaultMetrics
}

func registerMetrics() {
	DefaultMetrics = &PlatformMetrics{
		SearchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: platformSubsystem,
				Name:      "searches_total",
				Help:      "Total investor searches by source and status",
			},
			[]string{"source", "status"},
		),

		ScrapeRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: platformSubsystem,
				Name:      "scrape_requests_total",
				Help:      "Total web scrape operations by kind and status",
			},
			[]string{"kind", "status"},
		),

		LLMCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: platformSubsystem,
				Name:      "llm_calls_total",
				Help:      "Total language-model requests by operation and status",
			},
			[]string{"operation", "status"},
		),

		LLMLatencySeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: platformSubsystem,
				Name:      "llm_latency_seconds",
				Help:      "Language-model request latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"operation"},
		),

		AlertCyclesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: platformSubsystem,
				Name:      "alert_cycles_total",
				Help:      "Total completed alert scheduler cycles",
			},
		),

		AlertEmailsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: platformSubsystem,
				Name:      "alert_emails_total",
				Help:      "Total alert emails by delivery outcome",
			},
			[]string{"status"},
		),

		ActiveScrapes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: platformSubsystem,
				Name:      "active_scrapes",
				Help:      "Number of in-flight scrape operations",
			},
		),
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// RecordSearch records a completed investor search.
func (m *PlatformMetrics) RecordSearch(source string, success bool) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(source, statusLabel(success)).Inc()
}

// RecordScrape records a completed scrape operation.
func (m *PlatformMetrics) RecordScrape(kind string, success bool) {
	if m == nil {
		return
	}
	m.ScrapeRequestsTotal.WithLabelValues(kind, statusLabel(success)).Inc()
}

// RecordLLMCall records a language-model request and its latency.
func (m *PlatformMetrics) RecordLLMCall(operation string, seconds float64, success bool) {
	if m == nil {
		return
	}
	m.LLMCallsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
	m.LLMLatencySeconds.WithLabelValues(operation).Observe(seconds)
}

// RecordAlertCycle records a completed alert cycle and its deliveries.
func (m *PlatformMetrics) RecordAlertCycle(sent, failed int) {
	if m == nil {
		return
	}
	m.AlertCyclesTotal.Inc()
	if sent > 0 {
		m.AlertEmailsTotal.WithLabelValues("sent").Add(float64(sent))
	}
	if failed > 0 {
		m.AlertEmailsTotal.WithLabelValues("failed").Add(float64(failed))
	}
}

// ScrapeStarted increments the active scrapes gauge.
func (m *PlatformMetrics) ScrapeStarted() {
	if m == nil {
		return
	}
	m.ActiveScrapes.Inc()
}

// ScrapeEnded decrements the active scrapes gauge.
func (m *PlatformMetrics) ScrapeEnded() {
	if m == nil {
		return
	}
	m.ActiveScrapes.Dec()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
