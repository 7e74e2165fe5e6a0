package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"
	"github.com/vzahanych/weather-lookup/internal/graph"
	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var errLocationRequired = errors.New("either zip or both lat and lon are required")

type WeatherHandler struct {
	lookup graph.WeatherLookup
	logger *zap.Logger
	schema *jsonschema.Schema
}

func NewWeatherHandler(l graph.WeatherLookup, logger *zap.Logger) *WeatherHandler {
	reflector := &jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
	return &WeatherHandler{
		lookup: l,
		logger: logger,
		schema: reflector.Reflect(&weather.Result{}),
	}
}

// GetWeather serves GET /weather?zip=...|lat=...&lon=...[&units=...].
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.RequestContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    CodeInvalidParams,
			Details: err.Error(),
		})
		return
	}

	res, err := fetchWeather(ctx, h.lookup, req)
	if err != nil {
		status, body := errorResponse(err)
		utils.GetSpanFromGinContext(c).SetAttributes(attribute.String("error.code", body.Code))
		if status >= http.StatusInternalServerError {
			reqLogger.Error("Failed to get weather data", zap.Error(err))
		} else {
			reqLogger.Warn("Rejected weather request", zap.Error(err))
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Schema serves the JSON Schema of the weather result.
func (h *WeatherHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.schema)
}

func hasLocation(req WeatherRequest) bool {
	return req.Zip != "" || req.Lat != nil || req.Lon != nil
}

func fetchWeather(ctx context.Context, l graph.WeatherLookup, req WeatherRequest) (*weather.Result, error) {
	switch {
	case req.Zip != "" && (req.Lat != nil || req.Lon != nil):
		return nil, errLocationRequired
	case req.Zip != "":
		return l.ByPostalCode(ctx, req.Zip, req.Units)
	case req.Lat != nil && req.Lon != nil:
		return l.ByCoordinates(ctx, *req.Lat, *req.Lon, req.Units)
	default:
		return nil, errLocationRequired
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var verr *location.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    CodeInvalidParams,
			Details: location.Message(verr),
		}
	case errors.Is(err, errLocationRequired):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    CodeInvalidParams,
			Details: err.Error(),
		}
	default:
		return http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch weather data",
			Code:    CodeUpstreamUnavailable,
			Details: err.Error(),
		}
	}
}
