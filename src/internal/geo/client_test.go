package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"googlemaps.github.io/maps"

	"ride-service/src/pkg/log"
)

type fakeRouteAPI struct {
	geocodeFn    func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	reverseFn    func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	directionsFn func(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)

	geocodeCalls    int
	reverseCalls    int
	directionsCalls int
}

func (f *fakeRouteAPI) Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	f.geocodeCalls++
	return f.geocodeFn(ctx, r)
}

func (f *fakeRouteAPI) ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	f.reverseCalls++
	return f.reverseFn(ctx, r)
}

func (f *fakeRouteAPI) Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	f.directionsCalls++
	return f.directionsFn(ctx, r)
}

func newTestClient(api RouteAPI, cache redis.UniversalClient) *Client {
	return NewClient(api, cache, log.NewTestLogger(), viper.New())
}

func fastBackoff(t *testing.T) {
	t.Helper()
	original := retryBackoff
	retryBackoff = []time.Duration{time.Millisecond, time.Millisecond}
	t.Cleanup(func() { retryBackoff = original })
}

func geocodeResult(lat, lng float64, address string) maps.GeocodingResult {
	result := maps.GeocodingResult{FormattedAddress: address}
	result.Geometry.Location = maps.LatLng{Lat: lat, Lng: lng}
	return result
}

func TestGeocodeSuccess(t *testing.T) {
	api := &fakeRouteAPI{
		geocodeFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
			assert.Equal(t, "Umayyad Square, Damascus", r.Address)
			return []maps.GeocodingResult{geocodeResult(33.5138, 36.2765, "Umayyad Square, Damascus, Syria")}, nil
		},
	}

	place, err := newTestClient(api, nil).Geocode(context.Background(), "Umayyad Square, Damascus")
	assert.NoError(t, err)
	assert.Equal(t, 33.5138, place.Lat)
	assert.Equal(t, 36.2765, place.Lng)
	assert.Equal(t, "Umayyad Square, Damascus, Syria", place.Label)
}

func TestGeocodeNotFound(t *testing.T) {
	t.Run("provider reports zero results", func(t *testing.T) {
		api := &fakeRouteAPI{
			geocodeFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				return nil, errors.New("maps: ZERO_RESULTS")
			},
		}
		_, err := newTestClient(api, nil).Geocode(context.Background(), "nowhere at all")
		assert.ErrorIs(t, err, ErrGeocodeNotFound)
	})

	t.Run("empty result set", func(t *testing.T) {
		api := &fakeRouteAPI{
			geocodeFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				return []maps.GeocodingResult{}, nil
			},
		}
		_, err := newTestClient(api, nil).Geocode(context.Background(), "nowhere at all")
		assert.ErrorIs(t, err, ErrGeocodeNotFound)
	})
}

func TestGeocodeMalformedCoordinates(t *testing.T) {
	api := &fakeRouteAPI{
		geocodeFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
			return []maps.GeocodingResult{geocodeResult(0, 0, "Null Island")}, nil
		},
	}

	_, err := newTestClient(api, nil).Geocode(context.Background(), "Null Island")
	assert.ErrorIs(t, err, ErrGeocodeMalformed)
}

func TestGeocodeCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	api := &fakeRouteAPI{
		geocodeFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
			return []maps.GeocodingResult{geocodeResult(33.5138, 36.2765, "Umayyad Square")}, nil
		},
	}
	client := newTestClient(api, cache)

	first, err := client.Geocode(context.Background(), "Umayyad Square")
	assert.NoError(t, err)

	second, err := client.Geocode(context.Background(), "Umayyad Square")
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.geocodeCalls)
}

func TestReverseGeocode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api := &fakeRouteAPI{
			reverseFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				assert.Equal(t, 33.5138, r.LatLng.Lat)
				return []maps.GeocodingResult{geocodeResult(33.5138, 36.2765, "Umayyad Square, Damascus")}, nil
			},
		}
		label, err := newTestClient(api, nil).ReverseGeocode(context.Background(), 33.5138, 36.2765)
		assert.NoError(t, err)
		assert.Equal(t, "Umayyad Square, Damascus", label)
	})

	t.Run("no address found", func(t *testing.T) {
		api := &fakeRouteAPI{
			reverseFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				return nil, nil
			},
		}
		_, err := newTestClient(api, nil).ReverseGeocode(context.Background(), 0.1, 0.1)
		assert.ErrorIs(t, err, ErrGeocodeNotFound)
	})
}

func directionsRoute(meters int, duration time.Duration, polyline string) maps.Route {
	return maps.Route{
		Legs: []*maps.Leg{{
			Distance: maps.Distance{Meters: meters},
			Duration: duration,
		}},
		OverviewPolyline: maps.Polyline{Points: polyline},
	}
}

func TestRouteIdenticalEndpoints(t *testing.T) {
	api := &fakeRouteAPI{}
	_, err := newTestClient(api, nil).Route(context.Background(),
		Point{Lat: 33.5138, Lng: 36.2765},
		Point{Lat: 33.5138, Lng: 36.2765})
	assert.ErrorIs(t, err, ErrIdenticalEndpoints)
	assert.Equal(t, 0, api.directionsCalls)
}

func TestRouteUnavailable(t *testing.T) {
	t.Run("no routes returned", func(t *testing.T) {
		api := &fakeRouteAPI{
			directionsFn: func(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
				return nil, nil, nil
			},
		}
		_, err := newTestClient(api, nil).Route(context.Background(),
			Point{Lat: 33.5138, Lng: 36.2765}, Point{Lat: 33.25, Lng: 36.29})
		assert.ErrorIs(t, err, ErrRouteUnavailable)
	})

	t.Run("zero distance summary", func(t *testing.T) {
		api := &fakeRouteAPI{
			directionsFn: func(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
				return []maps.Route{directionsRoute(0, 0, "")}, nil, nil
			},
		}
		_, err := newTestClient(api, nil).Route(context.Background(),
			Point{Lat: 33.5138, Lng: 36.2765}, Point{Lat: 33.25, Lng: 36.29})
		assert.ErrorIs(t, err, ErrRouteUnavailable)
	})
}

func TestRoutePicksShortestAlternative(t *testing.T) {
	api := &fakeRouteAPI{
		directionsFn: func(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
			assert.True(t, r.Alternatives)
			return []maps.Route{
				directionsRoute(32000, 45*time.Minute, ""),
				directionsRoute(28000, 50*time.Minute, ""),
			}, nil, nil
		},
	}

	info, err := newTestClient(api, nil).Route(context.Background(),
		Point{Lat: 33.5138, Lng: 36.2765}, Point{Lat: 33.25, Lng: 36.29})
	assert.NoError(t, err)
	assert.Equal(t, uint64(28000), info.DistanceMeters)
	assert.Equal(t, uint64(3000), info.DurationSeconds)
	assert.Equal(t, 1, info.Alternative)
}

func TestRouteGeometry(t *testing.T) {
	// decodes to (38.5,-120.2), (40.7,-120.95), (43.252,-126.453)
	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

	api := &fakeRouteAPI{
		directionsFn: func(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
			return []maps.Route{directionsRoute(30000, 40*time.Minute, encoded)}, nil, nil
		},
	}

	info, err := newTestClient(api, nil).Route(context.Background(),
		Point{Lat: 33.5138, Lng: 36.2765}, Point{Lat: 33.25, Lng: 36.29})
	assert.NoError(t, err)

	points, ok := ParseGeometry(info.Geometry)
	assert.True(t, ok)
	assert.Len(t, points, 3)
	assert.InDelta(t, 38.5, points[0].Lat, 0.0001)
	assert.InDelta(t, -126.453, points[2].Lng, 0.0001)
}

func TestRetryTransientThenSuccess(t *testing.T) {
	fastBackoff(t)

	api := &fakeRouteAPI{}
	api.geocodeFn = func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
		if api.geocodeCalls < 3 {
			return nil, errors.New("maps: UNKNOWN_ERROR")
		}
		return []maps.GeocodingResult{geocodeResult(33.5138, 36.2765, "Umayyad Square")}, nil
	}

	place, err := newTestClient(api, nil).Geocode(context.Background(), "Umayyad Square")
	assert.NoError(t, err)
	assert.Equal(t, "Umayyad Square", place.Label)
	assert.Equal(t, 3, api.geocodeCalls)
}

func TestRetryExhaustion(t *testing.T) {
	fastBackoff(t)

	api := &fakeRouteAPI{
		geocodeFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := newTestClient(api, nil).Geocode(context.Background(), "Umayyad Square")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 3, api.geocodeCalls)
}

func TestNonTransientFailsFast(t *testing.T) {
	fastBackoff(t)

	api := &fakeRouteAPI{
		geocodeFn: func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
			return nil, errors.New("maps: REQUEST_DENIED")
		},
	}

	_, err := newTestClient(api, nil).Geocode(context.Background(), "Umayyad Square")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 1, api.geocodeCalls)
}
