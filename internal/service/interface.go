package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vzahanych/weather-lookup/internal/location"
)

// WeatherService returns the provider's raw current-conditions payload for a
// query. Non-2xx answers that carry a body are returned, not treated as errors.
type WeatherService interface {
	Current(ctx context.Context, q location.Query) ([]byte, error)
	Name() string
}

var ErrTransport = errors.New("weather provider unreachable")

// TransportError wraps a failure to get any payload from the provider.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Service, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
