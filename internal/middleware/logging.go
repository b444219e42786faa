package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id (reusing a client-supplied
// X-Request-ID), stores a request-scoped logger on the context and logs the
// outcome once the handler returns.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		logger := logging.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		event = event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("size", c.Writer.Size())
		if id, ok := CurrentUserID(c); ok {
			event = event.Str("user_id", id.String())
		}
		event.Msg("request")
	}
}
