package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context values set by this package.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey  = contextKey("logger")
	serviceIDKey  = contextKey("serviceID")
	requestIDHdr  = "X-Request-ID"
	requestIDAttr = "request_id"
)

// GetLoggerFromCtx retrieves the request-scoped logger from a standard
// context. It falls back to slog.Default when none was injected.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// GetServiceIDFromContext retrieves the authenticated caller's service ID.
func GetServiceIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(serviceIDKey); v != nil {
		id, ok := v.(string)
		return id, ok
	}
	return "", false
}
