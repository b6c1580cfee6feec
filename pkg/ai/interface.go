package ai

import (
	"context"
	"errors"
)

// Prompt is a single generation request: a system instruction, the user turn,
// and the sampling bounds for this call.
type Prompt struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// TextGenerator is the interface for AI text generation.
// Implement this interface to add new AI providers (OpenAI, Gemini, Ollama, etc.)
type TextGenerator interface {
	// Generate performs exactly one call to the provider and returns the raw text.
	Generate(ctx context.Context, prompt Prompt) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
)

var (
	// ErrNotConfigured means the provider is missing a required credential or setting.
	ErrNotConfigured = errors.New("ai provider not configured")
	// ErrQuotaExceeded means the provider reported quota, billing or rate exhaustion.
	ErrQuotaExceeded = errors.New("ai provider quota exceeded")
	// ErrEmptyResponse means the provider answered successfully but with no text.
	ErrEmptyResponse = errors.New("ai provider returned no content")
)
