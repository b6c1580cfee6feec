package delivery

import (
	"errors"
	"net/http"
	"strings"

	authdomain "mailreply-backend/internal/auth/domain"
	"mailreply-backend/internal/auth/usecase"
	"mailreply-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware. userID is also read by the request logger and the rate limiter.
const (
	ctxKeyUser   = "user"
	ctxKeyUserID = "userID"
)

// AuthMiddleware admits requests carrying a valid access token as "Authorization: Bearer <token>".
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearerToken(c.GetHeader("Authorization"))
		if problem != "" {
			rejectUnauthorized(c, problem)
			return
		}

		user, err := authUsecase.ValidateToken(token)
		switch {
		case err == nil:
		case usecase.IsClientError(err), errors.Is(err, authdomain.ErrUserNotFound):
			rejectUnauthorized(c, "invalid or expired token")
			return
		default:
			logger.FromContext(c, logger.Log).Error("access token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(ctxKeyUser, user)
		c.Set(ctxKeyUserID, user.ID)
		c.Next()
	}
}

// CurrentUser returns the account AuthMiddleware admitted, if any.
func CurrentUser(c *gin.Context) (*authdomain.User, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*authdomain.User)
	return user, ok && user != nil
}

// bearerToken extracts the token, or returns the message to reject the request with
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "authorization header required"
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "invalid authorization header format"
	}
	return token, ""
}

func rejectUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
