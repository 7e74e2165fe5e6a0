package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordWeatherServiceCall(ctx context.Context, service string, success bool)
	RecordValidationFailure(ctx context.Context, field string)
}

// Lookup validates a location, asks the provider for current conditions once
// and normalizes the answer. It keeps no per-request state.
type Lookup struct {
	service      service.WeatherService
	defaultUnits location.Units
	logger       *zap.Logger
	tele         *telemetry.Telemetry
	metrics      MetricsRecorder
}

func New(svc service.WeatherService, defaultUnits location.Units, logger *zap.Logger, tele *telemetry.Telemetry) *Lookup {
	if defaultUnits == "" {
		defaultUnits = location.DefaultUnits
	}
	return &Lookup{
		service:      svc,
		defaultUnits: defaultUnits,
		logger:       logger,
		tele:         tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for the lookup
func (l *Lookup) SetMetricsRecorder(metrics MetricsRecorder) {
	l.metrics = metrics
}

func (l *Lookup) DefaultUnits() location.Units {
	return l.defaultUnits
}

// ByPostalCode validates raw and units before fetching.
func (l *Lookup) ByPostalCode(ctx context.Context, raw, units string) (*weather.Result, error) {
	u, err := l.parseUnits(ctx, units)
	if err != nil {
		return nil, err
	}

	code, err := location.ValidatePostalCode(raw)
	if err != nil {
		l.recordValidation(ctx, err)
		return nil, err
	}

	return l.Fetch(ctx, location.NewPostalCodeQuery(code, u))
}

func (l *Lookup) ByCoordinates(ctx context.Context, lat, lon float64, units string) (*weather.Result, error) {
	u, err := l.parseUnits(ctx, units)
	if err != nil {
		return nil, err
	}

	coords, err := location.ValidateCoordinates(lat, lon)
	if err != nil {
		l.recordValidation(ctx, err)
		return nil, err
	}

	return l.Fetch(ctx, location.NewCoordinatesQuery(coords, u))
}

// Fetch is the single fetch-and-normalize path shared by every entry point.
// A transport failure or an unreadable payload fails the call; an upstream
// non-200 answer is returned as a Result carrying that status.
func (l *Lookup) Fetch(ctx context.Context, q location.Query) (*weather.Result, error) {
	tracer := l.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "lookup.Fetch")
	defer span.End()

	reqLogger := l.logger
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		reqLogger = l.logger.With(zap.String("request_id", requestID))
	}

	span.SetAttributes(
		attribute.String("location", q.String()),
		attribute.String("units", q.Units().String()),
	)

	start := time.Now()
	body, err := l.service.Current(ctx, q)
	if err != nil {
		l.record(ctx, false)
		span.SetAttributes(attribute.Bool("success", false))
		l.tele.RecordError(ctx, err, map[string]interface{}{"location": q.String()})
		reqLogger.Error("Failed to fetch current conditions",
			zap.String("service", l.service.Name()),
			zap.String("location", q.String()),
			zap.Error(err))
		return nil, err
	}

	result, err := weather.Normalize(body, q.Units())
	if err != nil {
		l.record(ctx, false)
		span.SetAttributes(attribute.Bool("success", false))
		reqLogger.Error("Unreadable provider response",
			zap.String("service", l.service.Name()),
			zap.String("location", q.String()),
			zap.Int("body_size", len(body)),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", l.service.Name(), err)
	}

	l.record(ctx, true)
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("status_code", result.StatusCode),
	)

	fields := []zap.Field{
		zap.String("location", q.String()),
		zap.String("units", q.Units().String()),
		zap.Int("status_code", result.StatusCode),
		zap.Duration("latency", time.Since(start)),
	}
	if result.OK() {
		reqLogger.Info("Current conditions fetched", fields...)
	} else {
		reqLogger.Warn("Provider reported an error", append(fields, zap.Stringp("message", result.Message))...)
	}

	return result, nil
}

func (l *Lookup) parseUnits(ctx context.Context, raw string) (location.Units, error) {
	if raw == "" {
		return l.defaultUnits, nil
	}
	u, err := location.ParseUnits(raw)
	if err != nil {
		l.recordValidation(ctx, err)
		return "", err
	}
	return u, nil
}

func (l *Lookup) record(ctx context.Context, success bool) {
	if l.metrics != nil {
		l.metrics.RecordWeatherServiceCall(ctx, l.service.Name(), success)
	}
}

func (l *Lookup) recordValidation(ctx context.Context, err error) {
	if l.metrics == nil {
		return
	}
	field := "unknown"
	if verr, ok := err.(*location.ValidationError); ok {
		field = verr.Field
	}
	l.metrics.RecordValidationFailure(ctx, field)
}
