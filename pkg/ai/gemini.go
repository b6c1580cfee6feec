package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeminiService implements TextGenerator using the Gemini API
type GeminiService struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiService creates a Gemini client. The SDK owns its transport, so the
// request timeout from httpClient is applied per call through the context instead.
func NewGeminiService(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GeminiService, error) {
	if model == "" {
		// Use gemini-2.5-flash for fast replies
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	var timeout time.Duration
	if httpClient != nil {
		timeout = httpClient.Timeout
	}
	return &GeminiService{client: client, model: model, timeout: timeout}, nil
}

func (g *GeminiService) Name() string { return string(ProviderGemini) }

// Close releases the underlying SDK connection.
func (g *GeminiService) Close() error {
	return g.client.Close()
}

// Generate implements TextGenerator
func (g *GeminiService) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(prompt.System))
	model.SetTemperature(prompt.Temperature)
	model.SetMaxOutputTokens(int32(prompt.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := geminiText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

func classifyGeminiError(err error) error {
	if isGeminiQuotaError(err) {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return fmt.Errorf("gemini request failed: %w", err)
}

// isGeminiQuotaError matches RESOURCE_EXHAUSTED / HTTP 429 as reported by the Google API layers.
func isGeminiQuotaError(err error) bool {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPCode() == http.StatusTooManyRequests {
			return true
		}
		if apiErr.GRPCStatus().Code() == codes.ResourceExhausted {
			return true
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusTooManyRequests {
		return true
	}

	return status.Code(err) == codes.ResourceExhausted
}
