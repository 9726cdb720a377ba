// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fundlens/fundlens/services/platform/conf"
	"github.com/fundlens/fundlens/services/scraper"
	"github.com/fundlens/fundlens/services/search"
	"github.com/fundlens/fundlens/services/store"
)

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := conf.Load()

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
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	engine := search.New(st, scraper.New(scraper.Config{}), nil)

	result, err := engine.Search(cmd.Context(), search.Query{
		Terms:      args,
		Location:   searchLocation,
		IncludeWeb: searchWeb,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if result.ScrapeError != "" {
		fmt.Fprintln(os.Stderr, "warning: web search failed:", result.ScrapeError)
	}
	if len(result.Investors) == 0 {
		fmt.Println("No investors found.")
		return nil
	}

	investors := result.Investors
	if searchLimit > 0 && len(investors) > searchLimit {
		investors = investors[:searchLimit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tLOCATION\tINVESTMENTS\tFOCUS")
	for _, inv := range investors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			inv.Name, inv.Type, inv.Location, inv.Investments,
			strings.Join(inv.FocusAreas, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d investors", len(result.Investors))
	if result.WebCount > 0 {
		fmt.Printf(" (%d from the web)", result.WebCount)
	}
	fmt.Println()
	return nil
}
