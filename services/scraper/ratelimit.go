// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scraper

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Known upstream sources with distinct rate budgets.
const (
	sourceDefault    = "default"
	sourceCrunchbase = "crunchbase"
	sourceAngelList  = "angellist"
	sourceVCGuide    = "vcguide"
)

// Limit is a request budget over a time window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// defaultLimits holds the per-source request budgets.
var defaultLimits = map[string]Limit{
	sourceDefault:    {Requests: 30, Window: time.Minute},
	sourceCrunchbase: {Requests: 20, Window: time.Minute},
	sourceAngelList:  {Requests: 30, Window: time.Minute},
	sourceVCGuide:    {Requests: 40, Window: time.Minute},
}

// sourceLimiters hands out one token-bucket limiter per source.
// Unknown sources fall back to the default budget.
type sourceLimiters struct {
	mu       sync.Mutex
	limits   map[string]Limit
	limiters map[string]*rate.Limiter
}

func newSourceLimiters(overrides map[string]Limit) *sourceLimiters {
	limits := make(map[string]Limit, len(defaultLimits))
	for k, v := range defaultLimits {
		limits[k] = v
	}
	for k, v := range overrides {
		if v.Requests > 0 && v.Window > 0 {
			limits[k] = v
		}
	}
	return &sourceLimiters{
		limits:   limits,
		limiters: make(map[string]*rate.Limiter),
	}
}

// wait blocks until the source's budget permits a request, or the
// context ends.
func (l *sourceLimiters) wait(ctx context.Context, source string) error {
	return l.limiterFor(source).Wait(ctx)
}

func (l *sourceLimiters) limiterFor(source string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[source]; ok {
		return lim
	}
	budget, ok := l.limits[source]
	if !ok {
		budget = l.limits[sourceDefault]
	}
	// Burst equals the full window budget so short spikes inside the
	// window are allowed.
	lim := rate.NewLimiter(rate.Limit(float64(budget.Requests)/budget.Window.Seconds()), budget.Requests)
	l.limiters[source] = lim
	return lim
}
