// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fundlens/fundlens/pkg/logging"
)

var (
	logLevel    string
	logDir      string
	seedOnStart bool

	searchLocation string
	searchWeb      bool
	searchLimit    int

	rootCmd = &cobra.Command{
		Use:   "fundlens",
		Short: "FundLens investor search platform",
		Long: `FundLens finds, scores, and tracks startup investors. It serves
a combined local and web search over an investor corpus, matches
investors to startup profiles, and delivers saved-search email alerts.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel == "" {
				logLevel = os.Getenv("LOG_LEVEL")
			}
			logging.Setup(logging.Config{
				Level:   logging.ParseLevel(logLevel),
				LogDir:  logDir,
				Service: "fundlens",
			})
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the FundLens API server",
		RunE:  runServe, // Defined in cmd_serve.go
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate, // Defined in cmd_migrate.go
	}

	searchCmd = &cobra.Command{
		Use:   "search [terms...]",
		Short: "Search the investor corpus from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch, // Defined in cmd_search.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Directory for JSON log files (disabled when empty)")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false,
		"Seed the sample investor corpus before serving")

	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&seedOnStart, "seed", false,
		"Also load the sample investor corpus")

	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "",
		"Restrict results to a location substring")
	searchCmd.Flags().BoolVar(&searchWeb, "web", false,
		"Include live web results")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10,
		"Maximum results to print")
}
