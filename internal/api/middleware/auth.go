package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/internal/repository"
)

const sessionContextKey = "session"

// AuthMiddleware authenticates requests by their bearer session key. An
// unauthenticated shopper is sent back to the storefront root, mirroring
// the checkout view's redirect when no user is present.
func AuthMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       "unauthorized",
				"redirect_to": "/",
			})
			return
		}

		apiKey := strings.TrimPrefix(header, "Bearer ")
		session, err := repos.Session.GetByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			logger.Warn("Session authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       "unauthorized",
				"redirect_to": "/",
			})
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// GetSessionFromContext returns the authenticated session, if any.
func GetSessionFromContext(c *gin.Context) (*domain.Session, bool) {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*domain.Session)
	return session, ok
}
