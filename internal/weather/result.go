// Package weather turns provider payloads into the fixed Result schema.
package weather

import "github.com/vzahanych/weather-lookup/internal/location"

// Result is the uniform weather record returned for every lookup. When
// StatusCode is 200 every domain field is set; otherwise every domain field
// is nil and Message is set.
type Result struct {
	Temperature   *float64       `json:"temperature" jsonschema:"description=Current temperature in the requested unit system"`
	Description   *string        `json:"description"`
	FeelsLike     *float64       `json:"feelsLike"`
	TempMin       *float64       `json:"tempMin"`
	TempMax       *float64       `json:"tempMax"`
	Pressure      *int           `json:"pressure" jsonschema:"description=Atmospheric pressure in hPa"`
	Humidity      *int           `json:"humidity" jsonschema:"description=Relative humidity in percent"`
	Wind          *Wind          `json:"wind"`
	Coordinates   *Coordinates   `json:"coordinates"`
	CloudCoverage *int           `json:"cloudCoverage" jsonschema:"description=Cloudiness in percent"`
	StatusCode    int            `json:"statusCode" jsonschema:"required"`
	Message       *string        `json:"message"`
	Units         location.Units `json:"units" jsonschema:"required,enum=standard,enum=metric,enum=imperial"`
}

type Wind struct {
	Speed     float64  `json:"speed"`
	Direction int      `json:"direction" jsonschema:"description=Meteorological degrees"`
	Gust      *float64 `json:"gust"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (r *Result) OK() bool {
	return r.StatusCode == StatusOK
}
