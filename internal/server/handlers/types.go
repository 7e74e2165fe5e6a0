package handlers

// WeatherRequest is either a zip or a lat/lon pair. Pointers distinguish
// "absent" from zero coordinates.
type WeatherRequest struct {
	Zip   string   `form:"zip" json:"zip"`
	Lat   *float64 `form:"lat" json:"lat"`
	Lon   *float64 `form:"lon" json:"lon"`
	Units string   `form:"units" json:"units"`
}

// GraphQLRequest is the body of POST /graphql and the query of GET /graphql.
type GraphQLRequest struct {
	Query         string                 `json:"query" form:"query" binding:"required"`
	Variables     map[string]interface{} `json:"variables" form:"-"`
	OperationName string                 `json:"operationName" form:"operationName"`
}

// ErrorResponse represents an error response with validation
type ErrorResponse struct {
	Error   string `json:"error" validate:"required,min=1,max=500"`
	Code    string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Details string `json:"details,omitempty" validate:"omitempty,max=1000"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string            `json:"status" validate:"required,oneof=ok alive ready degraded unavailable"`
	Uptime    string            `json:"uptime" validate:"required"`
	Timestamp string            `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

const (
	CodeInvalidParams       = "INVALID_PARAMS"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInvalidQuery        = "INVALID_QUERY"
)
