// Package graph exposes weather lookups as a GraphQL query API.
package graph

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/internal/weather"
)

// WeatherLookup is the fetch-and-normalize routine behind both queries.
type WeatherLookup interface {
	ByPostalCode(ctx context.Context, raw, units string) (*weather.Result, error)
	ByCoordinates(ctx context.Context, lat, lon float64, units string) (*weather.Result, error)
}

const (
	CodeInvalidParams       = "INVALID_PARAMS"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

var unitsEnum = graphql.NewEnum(graphql.EnumConfig{
	Name:        "Units",
	Description: "Unit system the provider answers in.",
	Values: graphql.EnumValueConfigMap{
		string(location.UnitsStandard): &graphql.EnumValueConfig{Value: string(location.UnitsStandard), Description: "Kelvin, m/s"},
		string(location.UnitsMetric):   &graphql.EnumValueConfig{Value: string(location.UnitsMetric), Description: "Celsius, m/s"},
		string(location.UnitsImperial): &graphql.EnumValueConfig{Value: string(location.UnitsImperial), Description: "Fahrenheit, mph"},
	},
})

var windType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Wind",
	Fields: graphql.Fields{
		"speed":     &graphql.Field{Type: graphql.Float},
		"direction": &graphql.Field{Type: graphql.Int},
		"gust":      &graphql.Field{Type: graphql.Float},
	},
})

var coordinatesType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Coordinates",
	Fields: graphql.Fields{
		"lat": &graphql.Field{Type: graphql.Float},
		"lon": &graphql.Field{Type: graphql.Float},
	},
})

var resultType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "WeatherResult",
	Description: "Current conditions. Domain fields are null unless statusCode is 200.",
	Fields: graphql.Fields{
		"temperature":   &graphql.Field{Type: graphql.Float},
		"description":   &graphql.Field{Type: graphql.String},
		"feelsLike":     &graphql.Field{Type: graphql.Float},
		"tempMin":       &graphql.Field{Type: graphql.Float},
		"tempMax":       &graphql.Field{Type: graphql.Float},
		"pressure":      &graphql.Field{Type: graphql.Int},
		"humidity":      &graphql.Field{Type: graphql.Int},
		"wind":          &graphql.Field{Type: windType},
		"coordinates":   &graphql.Field{Type: coordinatesType},
		"cloudCoverage": &graphql.Field{Type: graphql.Int},
		"statusCode":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"message":       &graphql.Field{Type: graphql.String},
		"units":         &graphql.Field{Type: graphql.NewNonNull(unitsEnum)},
	},
})

// NewSchema builds the query schema. defaultUnits is the value of the units
// argument when a query omits it.
func NewSchema(l WeatherLookup, defaultUnits location.Units) (graphql.Schema, error) {
	if defaultUnits == "" {
		defaultUnits = location.DefaultUnits
	}

	unitsArg := &graphql.ArgumentConfig{
		Type:         unitsEnum,
		DefaultValue: string(defaultUnits),
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getWeather": &graphql.Field{
				Type:        graphql.NewNonNull(resultType),
				Description: "Current conditions for a five-digit postal code.",
				Args: graphql.FieldConfigArgument{
					"postalCode": &graphql.ArgumentConfig{Type: graphql.NewNonNull(postalCodeScalar)},
					"units":      unitsArg,
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					code, _ := postalCodeText(p.Args["postalCode"]).(string)
					res, err := l.ByPostalCode(p.Context, code, unitsFromArgs(p.Args))
					return resolved(res, err)
				},
			},
			"getWeatherByCoords": &graphql.Field{
				Type:        graphql.NewNonNull(resultType),
				Description: "Current conditions for a latitude/longitude pair.",
				Args: graphql.FieldConfigArgument{
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"units":     unitsArg,
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat, _ := p.Args["latitude"].(float64)
					lon, _ := p.Args["longitude"].(float64)
					res, err := l.ByCoordinates(p.Context, lat, lon, unitsFromArgs(p.Args))
					return resolved(res, err)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// Execute runs a single GraphQL request against schema. It is graphql.Do with
// validationRules in place of the stock rule set.
func Execute(ctx context.Context, schema graphql.Schema, query string, variables map[string]interface{}, operationName string) *graphql.Result {
	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{Body: []byte(query), Name: "GraphQL request"}),
	})
	if err != nil {
		return &graphql.Result{Errors: gqlerrors.FormatErrors(err)}
	}

	if vr := graphql.ValidateDocument(&schema, doc, validationRules); !vr.IsValid {
		return &graphql.Result{Errors: vr.Errors}
	}

	return graphql.Execute(graphql.ExecuteParams{
		Schema:        schema,
		AST:           doc,
		OperationName: operationName,
		Args:          variables,
		Context:       ctx,
	})
}

func unitsFromArgs(args map[string]interface{}) string {
	units, _ := args["units"].(string)
	return units
}

func resolved(res *weather.Result, err error) (interface{}, error) {
	if err != nil {
		return nil, classify(err)
	}
	return resultValue(res), nil
}

// Error is returned to GraphQL clients; Code is exposed under extensions.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

func classify(err error) error {
	var verr *location.ValidationError
	if errors.As(err, &verr) {
		return &Error{Message: location.Message(verr), Code: CodeInvalidParams}
	}
	return &Error{Message: "Failed to fetch weather data", Code: CodeUpstreamUnavailable}
}

// resultValue flattens r into the shape the default resolver reads, with
// untyped nils for absent fields.
func resultValue(r *weather.Result) map[string]interface{} {
	v := map[string]interface{}{
		"temperature":   floatOrNil(r.Temperature),
		"description":   stringOrNil(r.Description),
		"feelsLike":     floatOrNil(r.FeelsLike),
		"tempMin":       floatOrNil(r.TempMin),
		"tempMax":       floatOrNil(r.TempMax),
		"pressure":      intOrNil(r.Pressure),
		"humidity":      intOrNil(r.Humidity),
		"wind":          nil,
		"coordinates":   nil,
		"cloudCoverage": intOrNil(r.CloudCoverage),
		"statusCode":    r.StatusCode,
		"message":       stringOrNil(r.Message),
		"units":         string(r.Units),
	}
	if r.Wind != nil {
		v["wind"] = map[string]interface{}{
			"speed":     r.Wind.Speed,
			"direction": r.Wind.Direction,
			"gust":      floatOrNil(r.Wind.Gust),
		}
	}
	if r.Coordinates != nil {
		v["coordinates"] = map[string]interface{}{
			"lat": r.Coordinates.Lat,
			"lon": r.Coordinates.Lon,
		}
	}
	return v
}

func floatOrNil(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intOrNil(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func stringOrNil(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
