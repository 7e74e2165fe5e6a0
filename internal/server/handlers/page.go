package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/graph"
	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/internal/render"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

const pageTemplate = "index.html"

// Templates parses the embedded HTML templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

type pageData struct {
	Zip       string
	Units     string
	UnitNames []unitOption
	View      *render.View
	Error     string
}

type unitOption struct {
	Value string
	Label string
}

var unitOptions = []unitOption{
	{Value: string(location.UnitsImperial), Label: "Fahrenheit"},
	{Value: string(location.UnitsMetric), Label: "Celsius"},
	{Value: string(location.UnitsStandard), Label: "Kelvin"},
}

// PageHandler serves the form-based client.
type PageHandler struct {
	lookup       graph.WeatherLookup
	defaultUnits location.Units
	logger       *zap.Logger
}

func NewPageHandler(l graph.WeatherLookup, defaultUnits location.Units, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		lookup:       l,
		defaultUnits: defaultUnits,
		logger:       logger,
	}
}

func (h *PageHandler) Index(c *gin.Context) {
	data := pageData{Units: string(h.defaultUnits), UnitNames: unitOptions}

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		data.Error = "Invalid request parameters"
		c.HTML(http.StatusBadRequest, pageTemplate, data)
		return
	}

	data.Zip = req.Zip
	if req.Units != "" {
		data.Units = req.Units
	}

	if !hasLocation(req) {
		c.HTML(http.StatusOK, pageTemplate, data)
		return
	}

	res, err := fetchWeather(utils.RequestContext(c), h.lookup, req)
	if err != nil {
		status, _ := errorResponse(err)
		data.Error = pageError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to get weather data",
				zap.String("request_id", utils.GetRequestIDFromGinContext(c)),
				zap.Error(err))
		}
		c.HTML(status, pageTemplate, data)
		return
	}

	view := render.Format(res)
	if view.OK {
		data.View = &view
	} else {
		data.Error = "Error: " + view.Error
	}

	c.HTML(http.StatusOK, pageTemplate, data)
}

func pageError(err error) string {
	var verr *location.ValidationError
	switch {
	case errors.As(err, &verr):
		return location.Message(verr)
	case errors.Is(err, errLocationRequired):
		return "Please enter a valid 5-digit ZIP code"
	default:
		return "Error: Failed to fetch weather data"
	}
}
