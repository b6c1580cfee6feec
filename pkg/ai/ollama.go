package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3"
)

// OllamaService implements TextGenerator using an Ollama server
type OllamaService struct {
	getBaseURL func() string // Dynamic getter for BaseURL
	getModel   func() string // Dynamic getter for Model
	httpClient *http.Client
}

// NewOllamaService creates a new Ollama service with static settings
func NewOllamaService(baseURL, model string, httpClient *http.Client) *OllamaService {
	return NewOllamaServiceWithGetters(
		func() string { return baseURL },
		func() string { return model },
		httpClient,
	)
}

// NewOllamaServiceWithGetters creates a new Ollama service with dynamic getters
func NewOllamaServiceWithGetters(getBaseURL, getModel func() string, httpClient *http.Client) *OllamaService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaService{
		getBaseURL: getBaseURL,
		getModel:   getModel,
		httpClient: httpClient,
	}
}

func (o *OllamaService) Name() string { return string(ProviderOllama) }

func (o *OllamaService) baseURL() string {
	if u := o.getBaseURL(); u != "" {
		return u
	}
	return defaultOllamaBaseURL
}

func (o *OllamaService) model() string {
	if m := o.getModel(); m != "" {
		return m
	}
	return defaultOllamaModel
}

// Client returns an API client bound to the current base URL.
func (o *OllamaService) Client() (*api.Client, error) {
	base, err := url.Parse(o.baseURL())
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL: %w", err)
	}
	return api.NewClient(base, o.httpClient), nil
}

// Generate implements TextGenerator
func (o *OllamaService) Generate(ctx context.Context, prompt Prompt) (string, error) {
	client, err := o.Client()
	if err != nil {
		return "", err
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  o.model(),
		System: prompt.System,
		Prompt: prompt.User,
		Stream: &stream,
		Options: map[string]any{
			"temperature": prompt.Temperature,
			"num_predict": prompt.MaxTokens,
		},
	}

	var out strings.Builder
	err = client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", classifyOllamaError(err)
	}

	if out.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return out.String(), nil
}

// ListModels returns the model names installed on the current Ollama server.
func (o *OllamaService) ListModels(ctx context.Context) ([]string, error) {
	client, err := o.Client()
	if err != nil {
		return nil, err
	}
	resp, err := client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func classifyOllamaError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("ollama API error (%d): %w", statusErr.StatusCode, err)
	}
	return fmt.Errorf("ollama request failed: %w", err)
}
