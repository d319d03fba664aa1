package geo

import "errors"

var (
	// ErrGeocodeNotFound is returned when the provider has no result for an address.
	ErrGeocodeNotFound = errors.New("geocode: address not found")
	// ErrGeocodeMalformed is returned when the top result carries no usable coordinates.
	ErrGeocodeMalformed = errors.New("geocode: malformed result")
	// ErrProviderUnavailable wraps network or server failures after retry exhaustion.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrIdenticalEndpoints is returned when origin and destination coincide.
	ErrIdenticalEndpoints = errors.New("route: identical endpoints")
	// ErrRouteUnavailable is returned on zero routes or a malformed route summary.
	ErrRouteUnavailable = errors.New("route: no usable route")
)
