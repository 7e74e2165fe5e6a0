package weather

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/vzahanych/weather-lookup/internal/location"
)

const StatusOK = 200

// cod values outside this range are not HTTP-like statuses.
const (
	minStatus = 0
	maxStatus = 999
)

// ErrMalformedResponse means the payload could not be read as a weather
// response at all, or claimed success without the groups a success carries.
var ErrMalformedResponse = errors.New("malformed upstream response")

type payload struct {
	Cod     json.RawMessage `json:"cod"`
	Message json.RawMessage `json:"message"`
	Main    *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		TempMin   *float64 `json:"temp_min"`
		TempMax   *float64 `json:"temp_max"`
		Pressure  *float64 `json:"pressure"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description *string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
	Coord *struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	} `json:"coord"`
	Clouds *struct {
		All *float64 `json:"all"`
	} `json:"clouds"`
}

// Normalize maps a current-conditions payload onto Result. Numeric values
// are taken as-is: the provider has already converted them to units.
func Normalize(body []byte, units location.Units) (*Result, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	status, err := parseStatus(p.Cod)
	if err != nil {
		return nil, err
	}

	if status != StatusOK {
		msg, ok := messageText(p.Message)
		if !ok {
			msg = fmt.Sprintf("upstream returned status %d", status)
		}
		return &Result{StatusCode: status, Message: &msg, Units: units}, nil
	}

	return normalizeSuccess(&p, units)
}

func normalizeSuccess(p *payload, units location.Units) (*Result, error) {
	switch {
	case p.Main == nil:
		return nil, missing("main")
	case len(p.Weather) == 0:
		return nil, missing("weather")
	case p.Wind == nil:
		return nil, missing("wind")
	case p.Coord == nil:
		return nil, missing("coord")
	case p.Clouds == nil:
		return nil, missing("clouds")
	}

	m := p.Main
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"main.temp", m.Temp != nil},
		{"main.feels_like", m.FeelsLike != nil},
		{"main.temp_min", m.TempMin != nil},
		{"main.temp_max", m.TempMax != nil},
		{"main.pressure", m.Pressure != nil},
		{"main.humidity", m.Humidity != nil},
		{"weather[0].description", p.Weather[0].Description != nil},
		{"wind.speed", p.Wind.Speed != nil},
		{"wind.deg", p.Wind.Deg != nil},
		{"coord.lat", p.Coord.Lat != nil},
		{"coord.lon", p.Coord.Lon != nil},
		{"clouds.all", p.Clouds.All != nil},
	} {
		if !f.present {
			return nil, missing(f.name)
		}
	}

	return &Result{
		Temperature: floatPtr(*m.Temp),
		Description: p.Weather[0].Description,
		FeelsLike:   floatPtr(*m.FeelsLike),
		TempMin:     floatPtr(*m.TempMin),
		TempMax:     floatPtr(*m.TempMax),
		Pressure:    intPtr(*m.Pressure),
		Humidity:    intPtr(*m.Humidity),
		Wind: &Wind{
			Speed:     *p.Wind.Speed,
			Direction: *intPtr(*p.Wind.Deg),
			Gust:      p.Wind.Gust,
		},
		Coordinates: &Coordinates{
			Lat: *p.Coord.Lat,
			Lon: *p.Coord.Lon,
		},
		CloudCoverage: intPtr(*p.Clouds.All),
		StatusCode:    StatusOK,
		Units:         units,
	}, nil
}

// parseStatus accepts cod as a number (200) or a numeric string ("404").
func parseStatus(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, missing("cod")
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%w: non-integer cod %s", ErrMalformedResponse, raw)
		}
		if n < minStatus || n > maxStatus {
			return 0, fmt.Errorf("%w: cod %s out of range", ErrMalformedResponse, raw)
		}
		return int(n), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: unreadable cod %s", ErrMalformedResponse, raw)
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric cod %q", ErrMalformedResponse, s)
	}
	if code < minStatus || code > maxStatus {
		return 0, fmt.Errorf("%w: cod %q out of range", ErrMalformedResponse, s)
	}
	return code, nil
}

// messageText reports false when message is absent or null. A present
// message, even "", is kept as sent; non-string values keep their JSON text.
func messageText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

func missing(field string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedResponse, field)
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v float64) *int {
	i := int(math.Round(v))
	return &i
}
