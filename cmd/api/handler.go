package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	authUsecase "mailreply-backend/internal/auth/usecase"
	replyUsecase "mailreply-backend/internal/reply/usecase"
	"mailreply-backend/pkg/config"
	"mailreply-backend/pkg/logger"
	"mailreply-backend/pkg/metrics"
	"mailreply-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	replyGenerator replyUsecase.ReplyGenerator
	historyUsecase replyUsecase.HistoryUsecase
	limiter        ratelimit.Limiter
	config         *config.Config
	logger         *zap.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, generator replyUsecase.ReplyGenerator, historyUc replyUsecase.HistoryUsecase, limiter ratelimit.Limiter, cfg *config.Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		authUsecase:    authUc,
		replyGenerator: generator,
		historyUsecase: historyUc,
		limiter:        limiter,
		config:         cfg,
		logger:         log,
	}
}

// Engine builds the gin engine with middleware and routes
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(h.logger))
	r.Use(metrics.Middleware())
	r.Use(corsMiddleware(h.config.CORSOrigins))

	SetupRoutes(r, h.authUsecase, h.replyGenerator, h.historyUsecase, h.limiter, h.logger)
	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	h.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowAll := len(allowed) == 0 || slices.Contains(allowed, "*")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case origin == "":
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case allowAll || slices.Contains(allowed, origin):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
