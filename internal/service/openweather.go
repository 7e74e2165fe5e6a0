package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

const (
	openWeatherName = "openweathermap"
	maxBodyBytes    = 1 << 20
)

type OpenWeatherService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewOpenWeatherServiceWithConfig(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherService {
	return &OpenWeatherService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
		tele:   tele,
	}
}

func (s *OpenWeatherService) Name() string {
	return openWeatherName
}

// Current performs exactly one GET against the current-conditions endpoint.
func (s *OpenWeatherService) Current(ctx context.Context, q location.Query) ([]byte, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweathermap.Current")
	defer span.End()

	span.SetAttributes(
		attribute.String("service", openWeatherName),
		attribute.String("location", q.String()),
		attribute.String("units", q.Units().String()),
	)

	if s.apiKey == "" {
		s.logger.Warn("OpenWeatherMap called without API key", zap.String("location", q.String()))
	}

	u, err := s.buildURL(q)
	if err != nil {
		return nil, s.fail(span, &TransportError{Service: openWeatherName, Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, s.fail(span, &TransportError{Service: openWeatherName, Err: err})
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("Fetching current conditions",
		zap.String("location", q.String()),
		zap.String("units", q.Units().String()))

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.fail(span, &TransportError{Service: openWeatherName, Err: redactKey(err)})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, s.fail(span, &TransportError{Service: openWeatherName, Err: fmt.Errorf("reading body: %w", err)})
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.Int("response_size", len(body)),
		attribute.Bool("success", true),
	)

	s.logger.Debug("Current conditions received",
		zap.String("location", q.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	return body, nil
}

func (s *OpenWeatherService) buildURL(q location.Query) (string, error) {
	u, err := url.Parse(fmt.Sprintf("%s/weather", s.baseURL))
	if err != nil {
		return "", err
	}

	params := u.Query()
	if coords, ok := q.Coordinates(); ok {
		params.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	} else {
		code, _ := q.PostalCode()
		params.Set("zip", string(code))
	}
	params.Set("appid", s.apiKey)
	params.Set("units", q.Units().String())

	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (s *OpenWeatherService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("success", false))
	s.logger.Warn("OpenWeatherMap request failed", zap.Error(err))
	return err
}

// redactKey strips the query string, and with it appid, from *url.Error.
func redactKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, perr := url.Parse(urlErr.URL); perr == nil {
			u.RawQuery = ""
			urlErr.URL = u.String()
		}
	}
	return err
}
