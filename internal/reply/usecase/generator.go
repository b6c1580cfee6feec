package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	replydomain "mailreply-backend/internal/reply/domain"
	"mailreply-backend/pkg/ai"
	"mailreply-backend/pkg/metrics"

	"go.uber.org/zap"
)

const (
	DefaultMinEmailLength = 10
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 1000
)

// GeneratorConfig bounds input validation and sampling.
type GeneratorConfig struct {
	MinEmailLength int // in characters, after trimming
	Temperature    float32
	MaxTokens      int
}

// replyGenerator implements ReplyGenerator
type replyGenerator struct {
	provider ai.TextGenerator
	cfg      GeneratorConfig
	logger   *zap.Logger
}

// NewReplyGenerator creates a generator. provider may be nil when no provider is configured;
// Generate then reports a config error on every call.
func NewReplyGenerator(provider ai.TextGenerator, cfg GeneratorConfig, logger *zap.Logger) ReplyGenerator {
	if cfg.MinEmailLength <= 0 {
		cfg.MinEmailLength = DefaultMinEmailLength
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &replyGenerator{provider: provider, cfg: cfg, logger: logger}
}

func (g *replyGenerator) Generate(ctx context.Context, originalEmail string, tone replydomain.Tone) (string, error) {
	reply, err := g.generate(ctx, originalEmail, tone)

	outcome := "success"
	if err != nil {
		outcome = string(replydomain.KindOf(err))
	}
	metrics.IncrementReplyGeneration(toneLabel(tone), outcome)

	return reply, err
}

func (g *replyGenerator) generate(ctx context.Context, originalEmail string, tone replydomain.Tone) (string, error) {
	trimmed := strings.TrimSpace(originalEmail)
	if trimmed == "" {
		return "", &replydomain.GenerationError{Kind: replydomain.ErrorKindValidation, Message: "original email content is required"}
	}
	if utf8.RuneCountInString(trimmed) < g.cfg.MinEmailLength {
		return "", &replydomain.GenerationError{
			Kind:    replydomain.ErrorKindValidation,
			Message: fmt.Sprintf("original email must be at least %d characters", g.cfg.MinEmailLength),
		}
	}

	prompt, ok := BuildPrompt(originalEmail, tone)
	if !ok {
		return "", &replydomain.GenerationError{Kind: replydomain.ErrorKindValidation, Message: "please choose a valid tone"}
	}

	if g.provider == nil {
		return "", &replydomain.GenerationError{
			Kind:    replydomain.ErrorKindConfig,
			Message: "AI provider is not configured",
			Err:     ai.ErrNotConfigured,
		}
	}

	prompt.Temperature = g.cfg.Temperature
	prompt.MaxTokens = g.cfg.MaxTokens

	start := time.Now()
	text, err := g.provider.Generate(ctx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordAIProviderLatency(g.provider.Name(), status, time.Since(start))

	if err != nil {
		g.logger.Error("reply generation failed",
			zap.String("provider", g.provider.Name()),
			zap.String("tone", string(tone)),
			zap.Error(err),
		)
		return "", classifyProviderError(err)
	}

	reply := strings.TrimSpace(text)
	if reply == "" {
		g.logger.Warn("provider returned blank reply", zap.String("provider", g.provider.Name()))
		return "", &replydomain.GenerationError{
			Kind:    replydomain.ErrorKindGeneration,
			Message: "failed to generate a reply",
			Err:     ai.ErrEmptyResponse,
		}
	}
	return reply, nil
}

// toneLabel keeps the metric label set closed: request input never becomes a label value
func toneLabel(tone replydomain.Tone) string {
	if tone.Valid() {
		return string(tone)
	}
	return "invalid"
}

func classifyProviderError(err error) error {
	switch {
	case errors.Is(err, ai.ErrQuotaExceeded):
		return &replydomain.GenerationError{
			Kind:    replydomain.ErrorKindQuota,
			Message: "AI provider quota exceeded, please check the API key and billing",
			Err:     err,
		}
	case errors.Is(err, ai.ErrNotConfigured):
		return &replydomain.GenerationError{Kind: replydomain.ErrorKindConfig, Message: "AI provider is not configured", Err: err}
	default:
		return &replydomain.GenerationError{
			Kind:    replydomain.ErrorKindGeneration,
			Message: "an error occurred while generating the reply, please try again shortly",
			Err:     err,
		}
	}
}
