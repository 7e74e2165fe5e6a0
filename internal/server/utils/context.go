package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/lookup"
	"go.opentelemetry.io/otel/trace"
)

const (
	SpanContextKey = "span_context"
	RequestIDKey   = "request_id"
)

// GetSpanFromGinContext extracts the span context from Gin context
func GetSpanFromGinContext(c *gin.Context) trace.Span {
	return trace.SpanFromContext(GetContextFromGinContext(c))
}

// GetContextFromGinContext extracts the context with span from Gin context
func GetContextFromGinContext(c *gin.Context) context.Context {
	if spanCtx, exists := c.Get(SpanContextKey); exists {
		if ctx, ok := spanCtx.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}

// GetRequestIDFromGinContext extracts request ID from Gin context
func GetRequestIDFromGinContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// RequestContext is the context handlers pass down to the lookup: the span
// context plus the request ID for correlated logging.
func RequestContext(c *gin.Context) context.Context {
	ctx := GetContextFromGinContext(c)
	if requestID := GetRequestIDFromGinContext(c); requestID != "" {
		ctx = lookup.WithRequestID(ctx, requestID)
	}
	return ctx
}
