// Package location models the place a weather lookup is made for and
// validates user input before anything is sent upstream.
package location

import (
	"errors"
	"fmt"
	"strconv"
)

type Units string

const (
	UnitsStandard Units = "standard"
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"

	DefaultUnits = UnitsImperial
)

func (u Units) String() string {
	return string(u)
}

// PostalCode is a validated five-digit code.
type PostalCode string

type Coordinates struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

// Query is either a postal code or a coordinate pair, plus the unit system
// the upstream should answer in. Exactly one of PostalCode and Coordinates
// is set; use NewPostalCodeQuery or NewCoordinatesQuery to build one.
type Query struct {
	postalCode  PostalCode
	coordinates *Coordinates
	units       Units
}

func NewPostalCodeQuery(code PostalCode, units Units) Query {
	return Query{postalCode: code, units: units}
}

func NewCoordinatesQuery(coords Coordinates, units Units) Query {
	return Query{coordinates: &Coordinates{Latitude: coords.Latitude, Longitude: coords.Longitude}, units: units}
}

func (q Query) PostalCode() (PostalCode, bool) {
	return q.postalCode, q.coordinates == nil
}

func (q Query) Coordinates() (Coordinates, bool) {
	if q.coordinates == nil {
		return Coordinates{}, false
	}
	return *q.coordinates, true
}

func (q Query) Units() Units {
	return q.units
}

func (q Query) String() string {
	if c, ok := q.Coordinates(); ok {
		return fmt.Sprintf("%s,%s", strconv.FormatFloat(c.Latitude, 'f', -1, 64), strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	}
	return string(q.postalCode)
}

var (
	ErrInvalidFormat      = errors.New("invalid postal code format")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidUnits       = errors.New("invalid unit system")
)

// ValidationError reports client input that was rejected before any network
// activity. Reason is one of the Err* sentinels above.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}
