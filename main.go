package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "mailreply-backend/cmd/api"
	authdomain "mailreply-backend/internal/auth/domain"
	authRepo "mailreply-backend/internal/auth/repository"
	"mailreply-backend/internal/auth/scheduler"
	authUsecase "mailreply-backend/internal/auth/usecase"
	replydomain "mailreply-backend/internal/reply/domain"
	replyRepo "mailreply-backend/internal/reply/repository"
	replyUsecase "mailreply-backend/internal/reply/usecase"
	"mailreply-backend/pkg/ai"
	"mailreply-backend/pkg/config"
	"mailreply-backend/pkg/database"
	"mailreply-backend/pkg/logger"
	"mailreply-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &replydomain.SavedReply{}); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	savedReplyRepo := replyRepo.NewGormReplyRepository(db)

	go scheduler.NewTokenCleanupScheduler(userRepo, time.Hour, log).Run(ctx)

	// Runtime settings feed the Ollama provider on every call
	api.InitRuntimeConfig(cfg.OllamaBaseURL, cfg.OllamaModel)

	provider, err := ai.NewTextGenerator(ctx, ai.DynamicConfig{
		Provider:         ai.ProviderType(cfg.AIProvider),
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIModel:      cfg.OpenAIModel,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiModel:      cfg.GeminiModel,
		GetOllamaBaseURL: api.GetRuntimeOllamaBaseURL,
		GetOllamaModel:   api.GetRuntimeOllamaModel,
		RequestTimeout:   cfg.AIRequestTimeout,
	})
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		// generation answers with a config error until credentials are provided
		log.Warn("AI provider not configured", zap.String("provider", cfg.AIProvider), zap.Error(err))
		provider = nil
	case err != nil:
		log.Fatal("failed to initialize AI provider", zap.Error(err))
	default:
		log.Info("AI provider initialized", zap.String("provider", provider.Name()))
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	generator := replyUsecase.NewReplyGenerator(provider, replyUsecase.GeneratorConfig{
		MinEmailLength: cfg.ReplyMinLength,
		Temperature:    cfg.AITemperature,
		MaxTokens:      cfg.AIMaxTokens,
	}, log)
	historyUsecaseInstance := replyUsecase.NewHistoryUsecase(savedReplyRepo, cfg.HistoryDefaultLimit)

	// RATE_LIMIT_PER_MINUTE <= 0 turns the generate limit off
	var redisClient *redis.Client
	if cfg.RateLimitPerMinute > 0 && cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = redisClient.Close() }()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, generate rate limit falls open until it recovers", zap.Error(err))
		}
	}
	limiter := ratelimit.New(cfg.RateLimitPerMinute, redisClient)
	if limiter == nil {
		log.Info("generate rate limit disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, generator, historyUsecaseInstance, limiter, cfg, log)

	// Start server
	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
