// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fundlens/fundlens/services/platform"
	"github.com/fundlens/fundlens/services/platform/conf"
	"github.com/fundlens/fundlens/services/store"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg := conf.Load()

	if seedOnStart {
		if err := seedCorpus(cmd.Context(), cfg); err != nil {
			return err
		}
	}

	svc, err := platform.New(*cfg)
	if err != nil {
		return fmt.Errorf("initialize platform: %w", err)
	}

	return svc.Run()
}

// seedCorpus loads the sample investors through a short-lived store
// connection, before the platform opens its own.
func seedCorpus(ctx context.Context, cfg *conf.Config) error {
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
		return fmt.Errorf("open store for seeding: %w", err)
	}
	defer st.Close()

	n, err := st.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed investors: %w", err)
	}
	slog.Info("Seeded sample investors", "count", n)
	return nil
}
