package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// openAIQuotaType is the error.type OpenAI reports when the account has run out of credit.
const openAIQuotaType = "insufficient_quota"

// OpenAIService implements TextGenerator using the OpenAI chat completions API
type OpenAIService struct {
	client *openai.Client
	model  string
}

// NewOpenAIService creates a new OpenAI service. baseURL overrides the API endpoint
// (Azure-compatible gateways, test servers) when non-empty.
func NewOpenAIService(apiKey, model, baseURL string, httpClient *http.Client) *OpenAIService {
	if model == "" {
		model = openai.GPT4
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &OpenAIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAIService) Name() string { return string(ProviderOpenAI) }

// Generate implements TextGenerator
func (o *OpenAIService) Generate(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Type == openAIQuotaType || apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("openai API error (%d): %w", apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}

	return fmt.Errorf("openai request failed: %w", err)
}
