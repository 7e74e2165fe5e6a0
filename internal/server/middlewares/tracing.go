package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TelemetryMiddleware opens a server span per request, continuing a trace
// propagated in the headers. Lookup parameters from the query string are
// attached so a span shows which location and units were asked for.
func TelemetryMiddleware(logger *zap.Logger, tele *telemetry.Telemetry) gin.HandlerFunc {
	propagator := otel.GetTextMapPropagator()

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tele.GetTracer().Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethod(c.Request.Method),
				semconv.HTTPRoute(route),
				semconv.UserAgentOriginal(c.Request.UserAgent()),
				semconv.ClientAddress(c.ClientIP()),
				attribute.String("request.id", requestIDFrom(c)),
			),
		)
		defer span.End()

		span.SetAttributes(lookupAttributes(c)...)

		c.Set(utils.SpanContextKey, ctx)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(semconv.HTTPStatusCode(status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if len(c.Errors) > 0 {
			span.SetAttributes(attribute.String("error.message", c.Errors.String()))
		}

		if tele.IsEnabled() && status >= http.StatusBadRequest {
			logger.Debug("Request span finished with error status",
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("route", route),
				zap.Int("status", status))
		}
	}
}

// lookupAttributes describes the location a /weather or page request names.
// GraphQL arguments travel in the body and are traced by the lookup itself.
func lookupAttributes(c *gin.Context) []attribute.KeyValue {
	var attrs []attribute.KeyValue

	switch {
	case c.Query("zip") != "":
		attrs = append(attrs, attribute.String("weather.location.kind", "postal_code"))
	case c.Query("lat") != "" || c.Query("lon") != "":
		attrs = append(attrs, attribute.String("weather.location.kind", "coordinates"))
	default:
		return nil
	}

	if units := c.Query("units"); units != "" {
		attrs = append(attrs, attribute.String("weather.units", units))
	}
	return attrs
}
