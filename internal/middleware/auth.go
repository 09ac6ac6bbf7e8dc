package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/service"
)

const (
	HeaderAPIKey   = "X-Api-Key"
	ContextUserKey = "user"
)

func AuthMiddleware(cfg *config.Config, users *service.UserManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(HeaderAPIKey)
		if apiKey == "" {
			if cfg != nil && !cfg.Auth.RequireAPIKey {
				if user := users.DefaultUser(); user != nil {
					c.Set(ContextUserKey, user)
					c.Next()
					return
				}
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			c.Abort()
			return
		}

		user := users.Authenticate(apiKey)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the request context.
// Only valid behind AuthMiddleware.
func CurrentUser(c *gin.Context) *model.User {
	if val, exists := c.Get(ContextUserKey); exists {
		if user, ok := val.(*model.User); ok {
			return user
		}
	}
	return nil
}
