package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"etfTracker/internal/ports"
)

const requestIDKey = "requestID"

// RequestID tags every request with a UUID, echoes it in the X-Request-ID
// response header and logs the request line with it.
func RequestID(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		c.Next()

		logger.Debug(c.Request.Context(), "Request handled", map[string]interface{}{
			"requestID": id,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
		})
	}
}
