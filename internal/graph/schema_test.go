package graph

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/location"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/internal/weather"
)

type fakeLookup struct {
	payload string
	err     error

	postalCode string
	lat, lon   float64
	units      string
	calls      int
}

func (f *fakeLookup) ByPostalCode(ctx context.Context, raw, units string) (*weather.Result, error) {
	f.postalCode, f.units = raw, units
	if _, err := location.ValidatePostalCode(raw); err != nil {
		return nil, err
	}
	return f.fetch(units)
}

func (f *fakeLookup) ByCoordinates(ctx context.Context, lat, lon float64, units string) (*weather.Result, error) {
	f.lat, f.lon, f.units = lat, lon, units
	if _, err := location.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	return f.fetch(units)
}

func (f *fakeLookup) fetch(units string) (*weather.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return weather.Normalize([]byte(f.payload), location.Units(units))
}

const clearSky = `{"cod":200,"main":{"temp":72.5,"feels_like":70.1,"temp_min":68,"temp_max":75,"humidity":40,"pressure":1012},
	"weather":[{"description":"clear sky"}],"wind":{"speed":5,"deg":180},"coord":{"lat":40.7,"lon":-74.0},"clouds":{"all":10}}`

const fullSelection = `{
	temperature description feelsLike tempMin tempMax pressure humidity
	wind { speed direction gust } coordinates { lat lon } cloudCoverage
	statusCode message units
}`

func execute(t *testing.T, l WeatherLookup, query string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()
	schema, err := NewSchema(l, location.UnitsImperial)
	require.NoError(t, err)

	res := Execute(context.Background(), schema, query, vars, "")
	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestGetWeather_Success(t *testing.T) {
	l := &fakeLookup{payload: clearSky}
	out := execute(t, l, `query($zip: String!) { getWeather(postalCode: $zip, units: metric) `+fullSelection+` }`,
		map[string]interface{}{"zip": "10001"})

	require.Nil(t, out["errors"])
	got := out["data"].(map[string]interface{})["getWeather"].(map[string]interface{})

	assert.Equal(t, 72.5, got["temperature"])
	assert.Equal(t, "clear sky", got["description"])
	assert.Equal(t, 1012.0, got["pressure"])
	assert.Equal(t, 200.0, got["statusCode"])
	assert.Nil(t, got["message"])
	assert.Equal(t, "metric", got["units"])
	assert.Equal(t, map[string]interface{}{"speed": 5.0, "direction": 180.0, "gust": nil}, got["wind"])
	assert.Equal(t, map[string]interface{}{"lat": 40.7, "lon": -74.0}, got["coordinates"])

	assert.Equal(t, "10001", l.postalCode)
	assert.Equal(t, "metric", l.units)
}

func TestGetWeather_DefaultUnits(t *testing.T) {
	l := &fakeLookup{payload: clearSky}
	out := execute(t, l, `{ getWeather(postalCode: "10001") { statusCode units } }`, nil)

	require.Nil(t, out["errors"])
	assert.Equal(t, "imperial", l.units)
	got := out["data"].(map[string]interface{})["getWeather"].(map[string]interface{})
	assert.Equal(t, "imperial", got["units"])
}

func TestGetWeather_UpstreamError(t *testing.T) {
	l := &fakeLookup{payload: `{"cod":"404","message":"city not found"}`}
	out := execute(t, l, `{ getWeather(postalCode: "00000") `+fullSelection+` }`, nil)

	require.Nil(t, out["errors"])
	got := out["data"].(map[string]interface{})["getWeather"].(map[string]interface{})
	assert.Equal(t, 404.0, got["statusCode"])
	assert.Equal(t, "city not found", got["message"])
	assert.Nil(t, got["temperature"])
	assert.Nil(t, got["wind"])
	assert.Nil(t, got["coordinates"])
	assert.Nil(t, got["cloudCoverage"])
}

func TestGetWeather_ValidationError(t *testing.T) {
	l := &fakeLookup{payload: clearSky}
	out := execute(t, l, `{ getWeather(postalCode: "1234") { statusCode } }`, nil)

	assert.Nil(t, out["data"])
	errs := out["errors"].([]interface{})
	require.Len(t, errs, 1)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "Please enter a valid 5-digit ZIP code", first["message"])
	assert.Equal(t, map[string]interface{}{"code": CodeInvalidParams}, first["extensions"])
	assert.Equal(t, 0, l.calls)
}

func TestGetWeather_TransportError(t *testing.T) {
	l := &fakeLookup{err: &service.TransportError{Service: "openweathermap", Err: context.DeadlineExceeded}}
	out := execute(t, l, `{ getWeather(postalCode: "10001") { statusCode } }`, nil)

	assert.Nil(t, out["data"])
	errs := out["errors"].([]interface{})
	require.Len(t, errs, 1)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "Failed to fetch weather data", first["message"])
	assert.Equal(t, map[string]interface{}{"code": CodeUpstreamUnavailable}, first["extensions"])
}

func TestGetWeatherByCoords(t *testing.T) {
	l := &fakeLookup{payload: clearSky}
	out := execute(t, l, `query($lat: Float!, $lon: Float!, $units: Units) {
		getWeatherByCoords(latitude: $lat, longitude: $lon, units: $units) { statusCode temperature units }
	}`, map[string]interface{}{"lat": 40.7, "lon": -74.0, "units": "standard"})

	require.Nil(t, out["errors"])
	assert.Equal(t, 40.7, l.lat)
	assert.Equal(t, -74.0, l.lon)
	assert.Equal(t, "standard", l.units)
}

func TestGetWeatherByCoords_OutOfRange(t *testing.T) {
	l := &fakeLookup{payload: clearSky}
	out := execute(t, l, `{ getWeatherByCoords(latitude: 120, longitude: 0) { statusCode } }`, nil)

	assert.Nil(t, out["data"])
	assert.NotNil(t, out["errors"])
	assert.Equal(t, 0, l.calls)
}

func TestGetWeather_UnknownUnitsRejectedBySchema(t *testing.T) {
	l := &fakeLookup{payload: clearSky}
	out := execute(t, l, `{ getWeather(postalCode: "10001", units: kelvin) { statusCode } }`, nil)

	assert.NotNil(t, out["errors"])
	assert.Equal(t, 0, l.calls)
}

func TestGetWeather_MissingPostalCode(t *testing.T) {
	out := execute(t, &fakeLookup{}, `{ getWeather { statusCode } }`, nil)
	assert.NotNil(t, out["errors"])
}

func TestGetWeather_PostalCodeForms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		vars  map[string]interface{}
		want  string
	}{
		{"int literal", `{ getWeather(postalCode: 10001) { statusCode } }`, nil, "10001"},
		{"string literal keeps leading zero", `{ getWeather(postalCode: "02134") { statusCode } }`, nil, "02134"},
		{"int variable", `query($zip: Int!) { getWeather(postalCode: $zip) { statusCode } }`,
			map[string]interface{}{"zip": 10001}, "10001"},
		{"int variable from JSON", `query($zip: Int!) { getWeather(postalCode: $zip) { statusCode } }`,
			map[string]interface{}{"zip": 10001.0}, "10001"},
		{"string variable", `query($zip: String!) { getWeather(postalCode: $zip) { statusCode } }`,
			map[string]interface{}{"zip": "02134"}, "02134"},
		{"postal code variable", `query($zip: PostalCode!) { getWeather(postalCode: $zip) { statusCode } }`,
			map[string]interface{}{"zip": 10001.0}, "10001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLookup{payload: clearSky}
			out := execute(t, l, tt.query, tt.vars)

			require.Nil(t, out["errors"])
			assert.Equal(t, tt.want, l.postalCode)
			assert.Equal(t, 1, l.calls)
		})
	}
}

func TestGetWeather_ShortIntPostalCodeNotPadded(t *testing.T) {
	l := &fakeLookup{payload: clearSky}
	out := execute(t, l, `{ getWeather(postalCode: 1234) { statusCode } }`, nil)

	assert.Nil(t, out["data"])
	errs := out["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "Please enter a valid 5-digit ZIP code", errs[0].(map[string]interface{})["message"])
	assert.Equal(t, "1234", l.postalCode)
	assert.Equal(t, 0, l.calls)
}

func TestGetWeather_PostalCodeRejectsOtherTypes(t *testing.T) {
	tests := []struct {
		name  string
		query string
		vars  map[string]interface{}
	}{
		{"float literal", `{ getWeather(postalCode: 10001.5) { statusCode } }`, nil},
		{"boolean literal", `{ getWeather(postalCode: true) { statusCode } }`, nil},
		{"float variable", `query($zip: Float!) { getWeather(postalCode: $zip) { statusCode } }`,
			map[string]interface{}{"zip": 10001.0}},
		{"nullable int variable", `query($zip: Int) { getWeather(postalCode: $zip) { statusCode } }`,
			map[string]interface{}{"zip": 10001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLookup{payload: clearSky}
			out := execute(t, l, tt.query, tt.vars)

			assert.NotNil(t, out["errors"])
			assert.Equal(t, 0, l.calls)
		})
	}
}

func TestGetWeatherByCoords_VariablePositionsStillChecked(t *testing.T) {
	l := &fakeLookup{payload: clearSky}
	out := execute(t, l, `query($lat: String!, $lon: Float!) {
		getWeatherByCoords(latitude: $lat, longitude: $lon) { statusCode }
	}`, map[string]interface{}{"lat": "40.7", "lon": -74.0})

	errs, ok := out["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].(map[string]interface{})["message"], `Variable "$lat" of type "String!"`)
	assert.Equal(t, 0, l.calls)
}

func TestExecute_SyntaxError(t *testing.T) {
	out := execute(t, &fakeLookup{}, `{ getWeather(postalCode: `, nil)
	assert.NotNil(t, out["errors"])
	assert.Nil(t, out["data"])
}
