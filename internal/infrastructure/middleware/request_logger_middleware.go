package middleware

import (
	"context"
	"time"

	"drawnet/pkg/logger"
	"drawnet/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware assigns each request an id and logs it on
// completion with the authenticated username when present.
func RequestLoggerMiddleware(cl *logger.ContextLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, utils.NewRequestID())
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		if username := UsernameFromContext(c); username != "" {
			ctx = context.WithValue(ctx, logger.UsernameKey, username)
		}
		cl.LogRequest(ctx, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
