package server

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/memebin/memebin/internal/pkg/logger"
	"github.com/memebin/memebin/internal/pkg/response"
	"go.uber.org/zap"
)

// LoggerMiddleware logs every request with zap
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// APIKeyAuth gates admin endpoints behind an X-API-Key header. An empty
// configured key rejects every request: the admin surface stays closed
// rather than open by accident.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			response.Unauthorized(c, "admin access is not configured")
			c.Abort()
			return
		}

		provided := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.Unauthorized(c, "invalid api key")
			c.Abort()
			return
		}

		c.Next()
	}
}
