package api

import (
	"net/http"

	"mailreply-backend/internal/auth/delivery"
	authUsecase "mailreply-backend/internal/auth/usecase"
	replyDelivery "mailreply-backend/internal/reply/delivery"
	replyUsecase "mailreply-backend/internal/reply/usecase"
	"mailreply-backend/pkg/metrics"
	"mailreply-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, generator replyUsecase.ReplyGenerator, historyUsecase replyUsecase.HistoryUsecase, limiter ratelimit.Limiter, log *zap.Logger) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	replyHandler := replyDelivery.NewReplyHandler(generator, historyUsecase)
	requireAuth := delivery.AuthMiddleware(authUsecase)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/tones", replyHandler.GetTones)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.GET("/google/url", authHandler.GoogleAuthURL)
			auth.GET("/google/callback", authHandler.GoogleCallback)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.PATCH("/profile", requireAuth, authHandler.UpdateProfile)
			auth.PUT("/password", requireAuth, authHandler.ChangePassword)
		}

		// Reply routes (protected)
		replies := api.Group("/replies")
		replies.Use(requireAuth)
		{
			if limiter != nil {
				replies.POST("/generate", ratelimit.Middleware(limiter, log), replyHandler.GenerateReply)
			} else {
				replies.POST("/generate", replyHandler.GenerateReply)
			}
			replies.POST("", replyHandler.SaveReply)
			replies.GET("", replyHandler.GetReplies)
			replies.GET("/stats", replyHandler.GetReplyStats)
			replies.GET("/:id", replyHandler.GetReplyByID)
			replies.PATCH("/:id", replyHandler.UpdateReply)
			replies.DELETE("/:id", replyHandler.DeleteReply)
		}

		// Runtime AI settings (protected)
		settings := api.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("/ai", GetAISettings)
			settings.PUT("/ai", UpdateAISettings)
			settings.POST("/ai/test", TestAIConnection)
		}
	}
}
