// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package conf loads platform configuration from environment variables
// and an optional local .env file.
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the full platform configuration.
type Config struct {
	App    AppConfig
	Data   DataConfig
	LLM    LLMConfig
	SMTP   SMTPConfig
	Alerts AlertsConfig
}

// AppConfig holds the HTTP surface settings.
type AppConfig struct {
	Port    int
	GinMode string

	// APIKey, when set, is required in the X-API-Key header of every
	// /v1 request.
	APIKey string
}

// DataConfig holds storage settings.
type DataConfig struct {
	// DatabaseURL is a full postgres DSN. When empty the PG* fields
	// are tried, then the local SQLite file.
	DatabaseURL string

	PGHost     string
	PGPort     int
	PGUser     string
	PGPassword string
	PGDatabase string

	// SQLitePath is the local fallback database file.
	SQLitePath string

	// CacheDir is the badger cache directory. Empty selects an
	// in-memory cache.
	CacheDir string
}

// LLMConfig selects the language-model backend.
type LLMConfig struct {
	// Backend is "openai", "ollama", or "anthropic".
	Backend string
}

// SMTPConfig holds outbound mail settings. Alerts fall back to a
// logging-only mailer when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AlertsConfig holds the alert scheduler settings.
type AlertsConfig struct {
	Interval     time.Duration
	AuditLogPath string
}

// Load reads configuration from the environment, with defaults
// matching the local docker-compose setup. A .env file in the working
// directory is honored when present.
func Load() *Config {
	v := viper.New()

	// App
	v.SetDefault("PORT", 8090)
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("API_KEY", "")

	// Storage
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PGHOST", "")
	v.SetDefault("PGPORT", 5432)
	v.SetDefault("PGUSER", "fundlens")
	v.SetDefault("PGPASSWORD", "")
	v.SetDefault("PGDATABASE", "fundlens")
	v.SetDefault("SQLITE_PATH", "fundlens.db")
	v.SetDefault("CACHE_DIR", "")

	// LLM
	v.SetDefault("LLM_BACKEND", "openai")

	// Mail
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "alerts@fundlens.dev")

	// Alerts
	v.SetDefault("ALERT_INTERVAL", "1h")
	v.SetDefault("ALERT_AUDIT_LOG", "")

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	var c Config

	c.App.Port = v.GetInt("PORT")
	c.App.GinMode = v.GetString("GIN_MODE")
	c.App.APIKey = v.GetString("API_KEY")

	c.Data.DatabaseURL = v.GetString("DATABASE_URL")
	c.Data.PGHost = v.GetString("PGHOST")
	c.Data.PGPort = v.GetInt("PGPORT")
	c.Data.PGUser = v.GetString("PGUSER")
	c.Data.PGPassword = v.GetString("PGPASSWORD")
	c.Data.PGDatabase = v.GetString("PGDATABASE")
	c.Data.SQLitePath = v.GetString("SQLITE_PATH")
	c.Data.CacheDir = v.GetString("CACHE_DIR")

	c.LLM.Backend = v.GetString("LLM_BACKEND")

	c.SMTP.Host = v.GetString("SMTP_HOST")
	c.SMTP.Port = v.GetInt("SMTP_PORT")
	c.SMTP.Username = v.GetString("SMTP_USERNAME")
	c.SMTP.Password = v.GetString("SMTP_PASSWORD")
	c.SMTP.From = v.GetString("SMTP_FROM")

	c.Alerts.Interval = v.GetDuration("ALERT_INTERVAL")
	c.Alerts.AuditLogPath = v.GetString("ALERT_AUDIT_LOG")

	return &c
}
