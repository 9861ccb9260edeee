package middleware

import (
	"net/http"

	"uptime-optimizer/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware handles panics and errors
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NopLogger{}
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorw("panic recovered", map[string]any{
			"path":  c.Request.URL.Path,
			"panic": recovered,
		})
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": message,
			},
		})
	})
}
