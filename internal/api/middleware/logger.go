package middleware

import (
	"time"

	"uptime-optimizer/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request.
func Logger(log logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NopLogger{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		fields := map[string]any{
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		if c.Writer.Status() >= 500 {
			log.Errorw("request", fields)
			return
		}
		log.Debugw("request", fields)
	}
}
