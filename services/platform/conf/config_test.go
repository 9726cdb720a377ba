// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c := Load()
	require.NotNil(t, c)

	assert.Equal(t, 8090, c.App.Port)
	assert.Equal(t, "fundlens.db", c.Data.SQLitePath)
	assert.Equal(t, 5432, c.Data.PGPort)
	assert.Equal(t, "openai", c.LLM.Backend)
	assert.Equal(t, 587, c.SMTP.Port)
	assert.Equal(t, "alerts@fundlens.dev", c.SMTP.From)
	assert.Equal(t, time.Hour, c.Alerts.Interval)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LLM_BACKEND", "ollama")
	t.Setenv("API_KEY", "sekrit")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("ALERT_INTERVAL", "30m")

	c := Load()

	assert.Equal(t, 9999, c.App.Port)
	assert.Equal(t, "ollama", c.LLM.Backend)
	assert.Equal(t, "sekrit", c.App.APIKey)
	assert.Equal(t, "smtp.example.com", c.SMTP.Host)
	assert.Equal(t, 30*time.Minute, c.Alerts.Interval)
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")
	t.Setenv("PGHOST", "ignored-host")

	c := Load()

	assert.Equal(t, "postgres://u:p@db:5432/app", c.Data.DatabaseURL)
	assert.Equal(t, "ignored-host", c.Data.PGHost)
}
