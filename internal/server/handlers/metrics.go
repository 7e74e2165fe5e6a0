package handlers

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
)

// AppMetrics holds application-level metrics (upstream calls, rejected input)
type AppMetrics struct {
	mutex                sync.RWMutex
	weatherServiceCalls  map[string]int64
	weatherServiceErrors map[string]int64
	validationFailures   map[string]int64
}

// HTTPMetricsProvider interface for getting HTTP metrics from middleware
type HTTPMetricsProvider interface {
	Snapshot() middlewares.HTTPSnapshot
}

type MetricsHandler struct {
	appMetrics *AppMetrics
	http       HTTPMetricsProvider
}

func NewMetricsHandler(http HTTPMetricsProvider) *MetricsHandler {
	return &MetricsHandler{
		http: http,
		appMetrics: &AppMetrics{
			weatherServiceCalls:  make(map[string]int64),
			weatherServiceErrors: make(map[string]int64),
			validationFailures:   make(map[string]int64),
		},
	}
}

// RecordWeatherServiceCall records a weather service API call
func (h *MetricsHandler) RecordWeatherServiceCall(ctx context.Context, service string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.weatherServiceCalls[service]++
	if !success {
		h.appMetrics.weatherServiceErrors[service]++
	}
	h.appMetrics.mutex.Unlock()
}

// RecordValidationFailure records input rejected before any upstream call
func (h *MetricsHandler) RecordValidationFailure(ctx context.Context, field string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.validationFailures[field]++
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes metrics in the Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		snap := h.http.Snapshot()

		writeHeader(&b, "http_requests_total", "Total number of HTTP requests", "counter")
		writeSeries(&b, "http_requests_total", "route_status", snap.RequestsTotal)

		writeHeader(&b, "http_request_duration_seconds_avg", "Average duration of HTTP requests", "gauge")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AvgDuration, 'f', 6, 64) + "\n")

		writeHeader(&b, "http_active_requests", "Number of active HTTP requests", "gauge")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n")
	}

	h.appMetrics.mutex.RLock()
	writeHeader(&b, "weather_service_calls_total", "Total weather service calls", "counter")
	writeSeries(&b, "weather_service_calls_total", "service", h.appMetrics.weatherServiceCalls)

	writeHeader(&b, "weather_service_errors_total", "Total weather service errors", "counter")
	writeSeries(&b, "weather_service_errors_total", "service", h.appMetrics.weatherServiceErrors)

	writeHeader(&b, "weather_validation_failures_total", "Total lookups rejected before reaching the provider", "counter")
	writeSeries(&b, "weather_validation_failures_total", "field", h.appMetrics.validationFailures)
	h.appMetrics.mutex.RUnlock()

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, b.String())
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("# HELP " + name + " " + help + "\n")
	b.WriteString("# TYPE " + name + " " + kind + "\n")
}

// writeSeries writes one sample per label value, sorted for stable output.
func writeSeries(b *strings.Builder, name, label string, values map[string]int64) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(name + "{" + label + "=\"" + k + "\"} " + strconv.FormatInt(values[k], 10) + "\n")
	}
}
