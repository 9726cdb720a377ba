package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// GenerateJSON prompts the backend for a JSON document and unmarshals
// it into out. The backend's JSON response mode is requested where one
// exists; models without one often wrap JSON in markdown fences or
// prose, so the response is still trimmed to the outermost JSON value
// before decoding.
func GenerateJSON(ctx context.Context, client LLMClient, prompt string, params GenerationParams, out any) error {
	params.ForceJSON = true
	raw, err := client.Generate(ctx, prompt, params)
	if err != nil {
		return err
	}

	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return fmt.Errorf("no JSON found in model response")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

// ExtractJSON strips markdown fences and surrounding prose, returning
// the outermost JSON object or array in the text. Returns "" when
// neither is present.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	open := text[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}
	end := strings.LastIndexByte(text, close)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
