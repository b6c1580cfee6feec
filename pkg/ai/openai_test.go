package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) *OpenAIService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIService("test-key", "gpt-4", srv.URL+"/v1", srv.Client())
}

func TestOpenAIGenerateSendsSystemAndUserTurns(t *testing.T) {
	var got openai.ChatCompletionRequest
	svc := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  확인했습니다.  "},"finish_reason":"stop"}]}`))
	})

	text, err := svc.Generate(context.Background(), Prompt{
		System:      "system rules",
		User:        "reply to this",
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "  확인했습니다.  ", text, "trimming belongs to the caller")

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "system rules", got.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[1].Role)
	assert.Equal(t, "reply to this", got.Messages[1].Content)
	assert.Equal(t, "gpt-4", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 0.0001)
	assert.Equal(t, 1000, got.MaxTokens)
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	svc := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4","choices":[]}`))
	})

	_, err := svc.Generate(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIGenerateInsufficientQuota(t *testing.T) {
	svc := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","param":null,"code":"insufficient_quota"}}`))
	})

	_, err := svc.Generate(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestOpenAIGenerateServerErrorIsNotQuota(t *testing.T) {
	calls := 0
	svc := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"The server had an error","type":"server_error","param":null,"code":null}}`))
	})

	_, err := svc.Generate(context.Background(), Prompt{User: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, calls, "no retries")
}

func TestClassifyOpenAIErrorByType(t *testing.T) {
	err := classifyOpenAIError(&openai.APIError{Type: "insufficient_quota", HTTPStatusCode: http.StatusForbidden})
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	err = classifyOpenAIError(&openai.APIError{Type: "invalid_request_error", HTTPStatusCode: http.StatusBadRequest})
	assert.NotErrorIs(t, err, ErrQuotaExceeded)

	err = classifyOpenAIError(&openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}
