// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fundlens/fundlens/services/cache"
	"github.com/fundlens/fundlens/services/llm"
)

// translationCacheTTL is long: a term's plain-language explanation does
// not go stale the way sentiment does.
const translationCacheTTL = 24 * time.Hour

// Translation is a plain-language rendering of financial jargon.
type Translation struct {
	SimpleExplanation string            `json:"simple_explanation"`
	KeyTerms          map[string]string `json:"key_terms"`
	Example           string            `json:"example,omitempty"`
	Context           string            `json:"context,omitempty"`
}

// Translator explains financial and investment jargon in simple terms.
type Translator struct {
	client llm.LLMClient
	cache  *cache.Cache
}

// NewTranslator creates a translator. The cache may be nil.
func NewTranslator(client llm.LLMClient, c *cache.Cache) *Translator {
	return &Translator{client: client, cache: c}
}

// Translate explains the given text. Repeated texts hit the cache.
func (t *Translator) Translate(ctx context.Context, text string) (*Translation, error) {
	if text == "" {
		return nil, errors.New("nothing to translate")
	}

	key := "translation:" + contentHash(text)
	if t.cache != nil {
		var cached Translation
		if err := t.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("translation cache read failed", "error", err)
		}
	}

	prompt := fmt.Sprintf(`Translate this financial or investment-related text into simple, clear language:
%q

Provide a JSON response with:
1. Simple explanation
2. Key terms defined
3. Example if applicable
4. Additional context (if needed)

Format as JSON with these keys:
simple_explanation, key_terms, example, context`, text)

	var out Translation
	if err := llm.GenerateJSON(ctx, t.client, prompt, analysisParams(), &out); err != nil {
		return nil, fmt.Errorf("translate jargon: %w", err)
	}

	if t.cache != nil {
		if err := t.cache.SetJSON(ctx, key, out, translationCacheTTL); err != nil {
			slog.Warn("translation cache write failed", "error", err)
		}
	}
	return &out, nil
}
