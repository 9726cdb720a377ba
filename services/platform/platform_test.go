// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package platform

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundlens/fundlens/services/alerts"
	"github.com/fundlens/fundlens/services/platform/conf"
)

func testConfig() conf.Config {
	var cfg conf.Config
	cfg.App.GinMode = gin.TestMode
	cfg.Data.SQLitePath = ":memory:"
	cfg.LLM.Backend = "openai"
	return cfg
}

func TestNew_BuildsWorkingService(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	svc, err := New(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { svc.(*service).cleanup() })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	svc.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestNew_ExposesMetricsEndpoint(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	svc, err := New(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { svc.(*service).cleanup() })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	svc.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNew_UnknownLLMBackendFails(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Backend = "psychic"

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM backend")
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := applyConfigDefaults(conf.Config{})

	assert.Equal(t, 8090, cfg.App.Port)
	assert.Equal(t, gin.ReleaseMode, cfg.App.GinMode)
	assert.Equal(t, "openai", cfg.LLM.Backend)
	assert.Equal(t, time.Hour, cfg.Alerts.Interval)
}

func TestBuildMailer(t *testing.T) {
	t.Run("no host selects logging mailer", func(t *testing.T) {
		s := &service{config: testConfig()}
		_, ok := s.buildMailer().(alerts.NopMailer)
		assert.True(t, ok)
	})

	t.Run("host selects SMTP", func(t *testing.T) {
		s := &service{config: testConfig()}
		s.config.SMTP.Host = "smtp.example.com"
		_, ok := s.buildMailer().(*alerts.SMTPMailer)
		assert.True(t, ok)
	})
}
