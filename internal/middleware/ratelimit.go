package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/service"
)

// RateLimitMiddleware enforces the per-user request budget. This is the
// HTTP-layer token bucket; the one-trade-per-window gate is applied inside
// the executor, not here.
func RateLimitMiddleware(users *service.UserManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		if !users.Limiter(user.ID).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": "1s",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
