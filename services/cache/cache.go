// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cache provides a BadgerDB-backed TTL cache for search results
// and analysis output.
//
// Entries are stored as JSON with a per-entry TTL so scraped investor
// data and LLM analyses survive process restarts without going stale.
// An in-memory mode backs the tests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Config holds settings for a cache instance.
type Config struct {
	// Dir is the directory for BadgerDB files. Required unless InMemory.
	Dir string

	// InMemory disables disk persistence. Used by tests.
	InMemory bool

	// DefaultTTL applies when Set is called with a zero TTL.
	// Default: 15 minutes.
	DefaultTTL time.Duration

	// GCInterval is how often value log garbage collection runs.
	// Zero disables GC. Ignored for in-memory caches.
	GCInterval time.Duration

	// Logger receives BadgerDB's internal log output. Nil silences it.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults for an on-disk cache.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:        dir,
		DefaultTTL: 15 * time.Minute,
		GCInterval: 5 * time.Minute,
	}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{
		InMemory:   true,
		DefaultTTL: 15 * time.Minute,
	}
}

// Cache is a TTL key-value cache. Safe for concurrent use.
type Cache struct {
	db         *badger.DB
	defaultTTL time.Duration
	logger     *slog.Logger
	stopGC     chan struct{}
	gcDone     chan struct{}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open creates a cache with the given configuration. Call Close when
// done.
func Open(cfg Config) (*Cache, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, errors.New("cache: dir is required for persistent cache")
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 15 * time.Minute
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	c := &Cache{
		db:         db,
		defaultTTL: cfg.DefaultTTL,
		logger:     cfg.Logger,
	}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		c.stopGC = make(chan struct{})
		c.gcDone = make(chan struct{})
		go c.gcLoop(cfg.GCInterval)
	}
	return c, nil
}

// Close stops garbage collection and closes the database.
func (c *Cache) Close() error {
	if c.stopGC != nil {
		close(c.stopGC)
		<-c.gcDone
		c.stopGC = nil
	}
	return c.db.Close()
}

// Set stores raw bytes under key. A zero ttl uses the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Get returns the bytes stored under key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return out, nil
}

// SetJSON marshals v and stores it under key.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}

// GetJSON loads key and unmarshals it into v. Returns ErrMiss on
// absent or expired keys.
func (c *Cache) GetJSON(ctx context.Context, key string, v any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cache decode %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}

func (c *Cache) gcLoop(interval time.Duration) {
	defer close(c.gcDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopGC:
			return
		case <-ticker.C:
			err := c.db.RunValueLogGC(0.5)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) && c.logger != nil {
				c.logger.Warn("cache value log GC error", slog.String("error", err.Error()))
			}
		}
	}
}
