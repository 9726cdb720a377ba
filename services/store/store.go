// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store provides the relational investor store for FundLens.
//
// The store is backed by PostgreSQL in production and falls back to a
// local SQLite file when no connection string is configured, so the CLI
// works out of the box without infrastructure.
//
// # Connection Resolution
//
// Open resolves the data source in this order:
//
//  1. Config.DSN (typically the DATABASE_URL environment variable)
//  2. Config.PG* fields assembled into a postgres DSN
//  3. A local SQLite file at Config.LocalPath (default "fundlens.db")
//
// # Schema
//
// The schema is managed by GORM AutoMigrate on Open. Investor list-valued
// attributes (investment stages, focus areas) are stored as JSON columns
// via GORM's json serializer.
//
// # Thread Safety
//
// *Store is safe for concurrent use; gorm.DB manages its own connection
// pooling.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: record not found")

// Config holds connection settings for the investor store.
//
// All fields are optional. With a zero Config the store opens a local
// SQLite database named "fundlens.db" in the working directory.
type Config struct {
	// DSN is a full connection string (DATABASE_URL). When set it is
	// used verbatim and the PG* fields are ignored.
	DSN string

	// PGHost, PGPort, PGUser, PGPassword, PGDatabase assemble a postgres
	// DSN when DSN is empty and PGHost is set.
	PGHost     string
	PGPort     int
	PGUser     string
	PGPassword string
	PGDatabase string

	// LocalPath is the SQLite file used when neither DSN nor PGHost is
	// configured. Default: "fundlens.db". Use ":memory:" for tests.
	LocalPath string

	// LogQueries enables GORM query logging at info level.
	LogQueries bool
}

// Store wraps the GORM handle and exposes investor persistence operations.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema.
//
// The returned Store is ready for use. Callers should Close it on
// shutdown to release the underlying connection pool.
func Open(cfg Config) (*Store, error) {
	dialector, kind := resolveDialector(cfg)

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if cfg.LogQueries {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", kind, err)
	}

	if err := db.AutoMigrate(
		&Investor{},
		&Alert{},
		&AlertUser{},
	); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	slog.Info("investor store ready", "backend", kind)
	return &Store{db: db}, nil
}

// resolveDialector picks the database backend from the configuration.
func resolveDialector(cfg Config) (gorm.Dialector, string) {
	if cfg.DSN != "" {
		return postgres.Open(cfg.DSN), "postgres"
	}
	if cfg.PGHost != "" {
		port := cfg.PGPort
		if port == 0 {
			port = 5432
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.PGHost, port, cfg.PGUser, cfg.PGPassword, cfg.PGDatabase)
		return postgres.Open(dsn), "postgres"
	}

	path := cfg.LocalPath
	if path == "" {
		path = "fundlens.db"
	}
	slog.Warn("no database connection string configured, using local SQLite", "path", path)
	return sqlite.Open(path), "sqlite"
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the raw GORM handle for packages that extend the store
// (alerts persistence). Most callers should use the typed methods.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// =============================================================================
// Investor CRUD
// =============================================================================

// Create inserts a new investor record.
func (s *Store) Create(ctx context.Context, inv *Investor) error {
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("create investor: %w", err)
	}
	return nil
}

// Get fetches a single investor by id.
func (s *Store) Get(ctx context.Context, id uint) (*Investor, error) {
	var inv Investor
	err := s.db.WithContext(ctx).First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get investor %d: %w", id, err)
	}
	return &inv, nil
}

// GetByName fetches a single investor by exact name.
func (s *Store) GetByName(ctx context.Context, name string) (*Investor, error) {
	var inv Investor
	err := s.db.WithContext(ctx).Where("lower(name) = ?", strings.ToLower(name)).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get investor %q: %w", name, err)
	}
	return &inv, nil
}

// Upsert inserts the investor or, when a record with the same name already
// exists, refreshes its mutable attributes. Deduplication is by name
// because scraped sources identify investors only by display name.
func (s *Store) Upsert(ctx context.Context, inv *Investor) error {
	if strings.TrimSpace(inv.Name) == "" {
		return errors.New("upsert investor: empty name")
	}
	existing, err := s.GetByName(ctx, inv.Name)
	if errors.Is(err, ErrNotFound) {
		return s.Create(ctx, inv)
	}
	if err != nil {
		return err
	}

	inv.ID = existing.ID
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(inv).Error; err != nil {
		return fmt.Errorf("upsert investor %q: %w", inv.Name, err)
	}
	return nil
}

// UpsertBatch applies Upsert to each investor, reporting how many were
// stored. The batch continues past individual failures so one malformed
// scrape result cannot sink a whole import.
func (s *Store) UpsertBatch(ctx context.Context, investors []Investor) (int, error) {
	var stored int
	var firstErr error
	for i := range investors {
		if err := s.Upsert(ctx, &investors[i]); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			slog.Warn("batch upsert skipped investor", "name", investors[i].Name, "error", err)
			continue
		}
		stored++
	}
	return stored, firstErr
}

// Delete removes an investor by id.
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Investor{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete investor %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all investors ordered by name.
func (s *Store) List(ctx context.Context) ([]Investor, error) {
	var out []Investor
	if err := s.db.WithContext(ctx).Order("name asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list investors: %w", err)
	}
	return out, nil
}

// Count returns the total number of investor records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Investor{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count investors: %w", err)
	}
	return n, nil
}
