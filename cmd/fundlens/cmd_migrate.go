// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fundlens/fundlens/services/platform/conf"
	"github.com/fundlens/fundlens/services/store"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := conf.Load()

	// Open runs AutoMigrate, so connecting is the migration.
	st, err := store.Open(store.Config{
		DSN:        cfg.Data.DatabaseURL,
		PGHost:     cfg.Data.PGHost,
		PGPort:     cfg.Data.PGPort,
		PGUser:     cfg.Data.PGUser,
		PGPassword: cfg.Data.PGPassword,
		PGDatabase: cfg.Data.PGDatabase,
		LocalPath:  cfg.Data.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	defer st.Close()
	slog.Info("Database schema up to date")

	if seedOnStart {
		n, err := st.Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed investors: %w", err)
		}
		slog.Info("Seeded sample investors", "count", n)
	}
	return nil
}
