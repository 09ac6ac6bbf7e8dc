package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
)

const HeaderOperatorKey = "X-Operator-Key"

// OperatorMiddleware guards operator-only endpoints (audit trail). Denied
// outright when no operator key is configured.
func OperatorMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || cfg.Auth.OperatorKey == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "operator key not configured"})
			c.Abort()
			return
		}
		if c.GetHeader(HeaderOperatorKey) != cfg.Auth.OperatorKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid operator key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
