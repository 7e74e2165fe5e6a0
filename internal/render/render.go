// Package render formats weather results for people.
package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/internal/weather"
)

// View is a display-ready rendering of a Result. When OK is false only
// Error is set.
type View struct {
	OK          bool
	Error       string
	Temperature string
	Description string
	FeelsLike   string
	TempMin     string
	TempMax     string
	Humidity    string
	Pressure    string
	Wind        string
	Gust        string
	Clouds      string
	Coordinates string
}

func TemperatureSuffix(u location.Units) string {
	switch u {
	case location.UnitsMetric:
		return "°C"
	case location.UnitsImperial:
		return "°F"
	default:
		return "K"
	}
}

func SpeedSuffix(u location.Units) string {
	if u == location.UnitsImperial {
		return "mph"
	}
	return "m/s"
}

// Format renders r using the suffixes of the unit system it was requested
// in. Numbers are rounded half away from zero.
func Format(r *weather.Result) View {
	if !r.OK() {
		msg := ""
		if r.Message != nil {
			msg = *r.Message
		}
		return View{Error: msg}
	}

	temp := TemperatureSuffix(r.Units)
	speed := SpeedSuffix(r.Units)

	v := View{
		OK:          true,
		Temperature: round(*r.Temperature) + temp,
		Description: *r.Description,
		FeelsLike:   round(*r.FeelsLike) + temp,
		TempMin:     round(*r.TempMin) + temp,
		TempMax:     round(*r.TempMax) + temp,
		Humidity:    fmt.Sprintf("%d%%", *r.Humidity),
		Pressure:    fmt.Sprintf("%d hPa", *r.Pressure),
		Wind:        fmt.Sprintf("%s %s at %d°", round(r.Wind.Speed), speed, r.Wind.Direction),
		Clouds:      fmt.Sprintf("%d%%", *r.CloudCoverage),
		Coordinates: coordinates(r.Coordinates),
	}
	if r.Wind.Gust != nil {
		v.Gust = fmt.Sprintf("%s %s", round(*r.Wind.Gust), speed)
	}

	return v
}

// Lines renders v as plain text, one fact per line.
func (v View) Lines() []string {
	if !v.OK {
		return []string{"Error: " + v.Error}
	}

	lines := []string{
		v.Temperature,
		v.Description,
		"Feels like: " + v.FeelsLike,
		"Min: " + v.TempMin + " / Max: " + v.TempMax,
		"Humidity: " + v.Humidity,
		"Pressure: " + v.Pressure,
		"Wind: " + v.Wind,
	}
	if v.Gust != "" {
		lines = append(lines, "Gusts: "+v.Gust)
	}
	return append(lines, "Clouds: "+v.Clouds, "Location: "+v.Coordinates)
}

// coordinates keeps the provider's precision; positions are not rounded.
func coordinates(c *weather.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func round(f float64) string {
	return fmt.Sprintf("%d", int(math.Round(f)))
}
