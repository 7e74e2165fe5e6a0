package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/config"
)

// HealthHandler reports liveness, and readiness from configuration. The
// provider itself is never called.
type HealthHandler struct {
	startTime time.Time
	version   string
	weather   config.WeatherConfig
}

func NewHealthHandler(version string, weather config.WeatherConfig) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		version:   version,
		weather:   weather,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: h.uptime(),
	})
}

// Readiness fails with 503 until an OpenWeatherMap API key is configured.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := h.checks()

	status, code := "ready", http.StatusOK
	if checks["api_key"] != checkOK {
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status: status,
		Uptime: h.uptime(),
		Checks: checks,
	})
}

// Health always answers 200; a missing API key degrades it.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := h.checks()

	status := "ok"
	if checks["api_key"] != checkOK {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Uptime:    h.uptime(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Checks:    checks,
	})
}

const (
	checkOK      = "ok"
	checkMissing = "missing"
)

func (h *HealthHandler) checks() map[string]string {
	checks := map[string]string{
		"api_key":  checkOK,
		"provider": h.weather.BaseURL,
	}
	if h.weather.APIKey == "" {
		checks["api_key"] = checkMissing
	}
	return checks
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}
