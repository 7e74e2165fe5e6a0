package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/config"
)

func healthEngine(weather config.WeatherConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHealthHandler("1.2.3", weather)
	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.GET("/health/live", h.Liveness)
	engine.GET("/health/ready", h.Readiness)
	return engine
}

func getHealth(t *testing.T, engine *gin.Engine, path string) (int, HealthResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealth_Configured(t *testing.T) {
	weather := config.NewDefaultConfig().Weather
	weather.APIKey = "key"
	engine := healthEngine(weather)

	code, resp := getHealth(t, engine, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, map[string]string{"api_key": "ok", "provider": weather.BaseURL}, resp.Checks)
	assert.NotEmpty(t, resp.Timestamp)

	code, resp = getHealth(t, engine, "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", resp.Status)

	code, resp = getHealth(t, engine, "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", resp.Status)
}

func TestHealth_MissingAPIKey(t *testing.T) {
	engine := healthEngine(config.NewDefaultConfig().Weather)

	code, resp := getHealth(t, engine, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "missing", resp.Checks["api_key"])

	code, resp = getHealth(t, engine, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", resp.Status)

	code, resp = getHealth(t, engine, "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", resp.Status)
}
