package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DynamicConfig holds AI provider configuration.
// The Ollama getters are read on every call so runtime settings changes apply immediately.
type DynamicConfig struct {
	Provider ProviderType

	// OpenAI config
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string // empty means api.openai.com

	// Gemini config
	GeminiAPIKey string
	GeminiModel  string

	// Ollama config
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string

	// Transport-level bound on a single provider call
	RequestTimeout time.Duration
}

// NewTextGenerator creates a TextGenerator based on the config.
// This is the factory function - switch AI provider by changing cfg.Provider.
// A missing credential yields an error wrapping ErrNotConfigured.
func NewTextGenerator(ctx context.Context, cfg DynamicConfig) (TextGenerator, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for OpenAI provider", ErrNotConfigured)
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, httpClient), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is required for Gemini provider", ErrNotConfigured)
		}
		svc, err := NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, httpClient)
		if err != nil {
			return nil, err
		}
		return svc, nil

	case ProviderOllama:
		if cfg.GetOllamaBaseURL == nil || cfg.GetOllamaModel == nil {
			return nil, fmt.Errorf("%w: Ollama base URL and model getters are required", ErrNotConfigured)
		}
		return NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel, httpClient), nil

	default:
		return nil, fmt.Errorf("%w: unknown AI_PROVIDER %q", ErrNotConfigured, cfg.Provider)
	}
}
