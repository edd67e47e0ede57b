package middleware

import (
	"user-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HeaderXRequestID is the header carrying the request ID in both directions.
const HeaderXRequestID = "X-Request-ID"

// requestIDKey is the gin context key holding the request ID.
const requestIDKey = "request_id"

// RequestID returns a Gin middleware that reuses the caller's X-Request-ID or generates one,
// echoes it in the response and stores it in the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if requestID == "" {
			requestID = logger.NewRequestID()
		}

		c.Set(requestIDKey, requestID)
		c.Header(HeaderXRequestID, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// GetRequestID returns the request ID assigned by RequestID, or "" if none.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
