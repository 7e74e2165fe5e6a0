package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/location"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, baseURL string) *OpenWeatherService {
	t.Helper()
	return NewOpenWeatherServiceWithConfig(config.WeatherConfig{
		BaseURL: baseURL,
		APIKey:  "secret",
		Timeout: 2,
	}, zaptest.NewLogger(t), nil)
}

func TestOpenWeatherService_PostalCodeRequest(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cod":200}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL+"/data/2.5/")
	body, err := svc.Current(context.Background(), location.NewPostalCodeQuery("02134", location.UnitsMetric))
	require.NoError(t, err)

	assert.JSONEq(t, `{"cod":200}`, string(body))
	assert.Equal(t, "02134", got.Get("zip"))
	assert.Equal(t, "secret", got.Get("appid"))
	assert.Equal(t, "metric", got.Get("units"))
	assert.Empty(t, got.Get("lat"))
}

func TestOpenWeatherService_CoordinatesRequest(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"cod":200}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	q := location.NewCoordinatesQuery(location.Coordinates{Latitude: 40.7128, Longitude: -74.006}, location.UnitsStandard)
	_, err := svc.Current(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "40.7128", got.Get("lat"))
	assert.Equal(t, "-74.006", got.Get("lon"))
	assert.Equal(t, "standard", got.Get("units"))
	assert.Empty(t, got.Get("zip"))
}

func TestOpenWeatherService_ErrorStatusReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	body, err := newTestService(t, srv.URL).Current(context.Background(), location.NewPostalCodeQuery("00000", location.UnitsImperial))
	require.NoError(t, err)
	assert.JSONEq(t, `{"cod":"404","message":"city not found"}`, string(body))
}

func TestOpenWeatherService_SingleRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestService(t, srv.URL).Current(context.Background(), location.NewPostalCodeQuery("10001", location.UnitsImperial))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestOpenWeatherService_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	body, err := newTestService(t, addr).Current(context.Background(), location.NewPostalCodeQuery("10001", location.UnitsImperial))
	assert.Nil(t, body)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "openweathermap", terr.Service)
	assert.NotContains(t, err.Error(), "secret")
}

func TestOpenWeatherService_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestService(t, srv.URL).Current(ctx, location.NewPostalCodeQuery("10001", location.UnitsImperial))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestOpenWeatherService_Name(t *testing.T) {
	assert.Equal(t, "openweathermap", newTestService(t, "http://localhost").Name())
}
