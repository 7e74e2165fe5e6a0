package location

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate         *validator.Validate
	postalCodeRegexp = regexp.MustCompile(`^\d{5}$`)
)

func init() {
	validate = validator.New()

	validate.RegisterValidation("postalcode", validatePostalCode)
	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
	validate.RegisterValidation("units", validateUnits)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validatePostalCode(fl validator.FieldLevel) bool {
	return postalCodeRegexp.MatchString(fl.Field().String())
}

// NaN fails both comparisons, and infinities fall outside the range.
func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180.0 && lon <= 180.0
}

func validateUnits(fl validator.FieldLevel) bool {
	switch Units(fl.Field().String()) {
	case UnitsStandard, UnitsMetric, UnitsImperial:
		return true
	default:
		return false
	}
}

// ValidatePostalCode accepts exactly five ASCII digits and returns them
// unchanged. Surrounding whitespace is not trimmed.
func ValidatePostalCode(raw string) (PostalCode, error) {
	if err := validate.Var(raw, "postalcode"); err != nil {
		return "", &ValidationError{Field: "postalCode", Value: raw, Reason: ErrInvalidFormat}
	}
	return PostalCode(raw), nil
}

func ValidateCoordinates(lat, lon float64) (Coordinates, error) {
	coords := Coordinates{Latitude: lat, Longitude: lon}
	if err := validate.Struct(coords); err != nil {
		field, value := "coordinates", interface{}(coords)
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			field, value = fieldErrs[0].Field(), fieldErrs[0].Value()
		}
		return Coordinates{}, &ValidationError{Field: field, Value: value, Reason: ErrInvalidCoordinates}
	}
	return coords, nil
}

// ParseUnits maps an empty selector to DefaultUnits and rejects anything
// the upstream does not understand rather than letting it fall back silently.
func ParseUnits(raw string) (Units, error) {
	if raw == "" {
		return DefaultUnits, nil
	}
	if err := validate.Var(raw, "units"); err != nil {
		return "", &ValidationError{Field: "units", Value: raw, Reason: ErrInvalidUnits}
	}
	return Units(raw), nil
}

// Message renders a ValidationError for end users.
func Message(err *ValidationError) string {
	switch err.Reason {
	case ErrInvalidFormat:
		return "Please enter a valid 5-digit ZIP code"
	case ErrInvalidCoordinates:
		switch err.Field {
		case "lat":
			return "lat must be a valid latitude between -90 and 90 degrees"
		case "lon":
			return "lon must be a valid longitude between -180 and 180 degrees"
		}
		return "coordinates must be a valid latitude/longitude pair"
	case ErrInvalidUnits:
		return fmt.Sprintf("units must be one of: %s %s %s", UnitsStandard, UnitsMetric, UnitsImperial)
	default:
		return fmt.Sprintf("%s is invalid", err.Field)
	}
}
