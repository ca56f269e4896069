package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimsinwoo/lupl-backend/config"
)

// RequireAdminKey guards the admin surface with a shared API key.
func RequireAdminKey(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-API-KEY") != cfg.AdminAPIKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
