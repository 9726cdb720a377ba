package llm

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// New builds the named LLM backend: openai, ollama, or anthropic
// ("claude" is accepted as an alias). An empty name selects openai.
func New(backend string) (LLMClient, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		backend = "openai"
	}
	slog.Info("Selecting LLM backend", "backend", backend)

	switch backend {
	case "openai":
		return NewOpenAIClient()
	case "ollama":
		return NewOllamaClient()
	case "anthropic", "claude":
		return NewAnthropicClient()
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", backend)
	}
}

// NewFromEnv builds the backend named by LLM_BACKEND.
func NewFromEnv() (LLMClient, error) {
	return New(os.Getenv("LLM_BACKEND"))
}
