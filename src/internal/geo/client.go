package geo

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"googlemaps.github.io/maps"

	"ride-service/src/pkg/log"
)

// identicalEpsilon is the degree delta under which two endpoints are treated
// as the same location, making routing impossible.
const identicalEpsilon = 1e-5

// retryBackoff holds the delay before each retry attempt. Only transient
// provider failures are retried.
var retryBackoff = []time.Duration{500 * time.Millisecond, 700 * time.Millisecond}

// RouteAPI is the slice of the provider client the geo package needs.
// *maps.Client satisfies it.
type RouteAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

type Place struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

type RouteInfo struct {
	DistanceMeters  uint64          `json:"distance_meters"`
	DurationSeconds uint64          `json:"duration_seconds"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
	Alternative     int             `json:"alternative"`
}

// Client resolves addresses and routes through the external provider, with a
// redis cache in front. The cache is a side effect only; a nil redis client
// disables it without changing behavior.
type Client struct {
	api     RouteAPI
	cache   redis.UniversalClient
	log     log.Log
	ttl     time.Duration
	timeout time.Duration
}

func NewClient(api RouteAPI, cache redis.UniversalClient, logger log.Log, v *viper.Viper) *Client {
	ttlHours := v.GetInt("geo.cache_ttl_hours")
	if ttlHours <= 0 {
		ttlHours = 6
	}
	timeoutSeconds := v.GetInt("geo.timeout_seconds")
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Client{
		api:     api,
		cache:   cache,
		log:     logger,
		ttl:     time.Duration(ttlHours) * time.Hour,
		timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

// Geocode resolves a free-text address to coordinates and a display label.
func (c *Client) Geocode(ctx context.Context, address string) (*Place, error) {
	key := cacheKey("GEOCODE", strings.ToLower(strings.TrimSpace(address)))
	var cached Place
	if c.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	var results []maps.GeocodingResult
	err := c.withRetry(ctx, "Geocode", func(ctx context.Context) error {
		var callErr error
		results, callErr = c.api.Geocode(ctx, &maps.GeocodingRequest{Address: address})
		return callErr
	})
	if err != nil {
		if isZeroResults(err) {
			return nil, ErrGeocodeNotFound
		}
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrGeocodeNotFound
	}

	top := results[0]
	if top.Geometry.Location.Lat == 0 && top.Geometry.Location.Lng == 0 {
		return nil, ErrGeocodeMalformed
	}

	place := Place{
		Lat:   top.Geometry.Location.Lat,
		Lng:   top.Geometry.Location.Lng,
		Label: top.FormattedAddress,
	}
	c.cacheSet(ctx, key, place)
	return &place, nil
}

// ReverseGeocode resolves coordinates to a display label. Best effort: the
// caller substitutes a coordinate string on failure.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	key := cacheKey("REVERSE", fmt.Sprintf("%.6f|%.6f", lat, lng))
	var cached Place
	if c.cacheGet(ctx, key, &cached) {
		return cached.Label, nil
	}

	var results []maps.GeocodingResult
	err := c.withRetry(ctx, "ReverseGeocode", func(ctx context.Context) error {
		var callErr error
		results, callErr = c.api.ReverseGeocode(ctx, &maps.GeocodingRequest{
			LatLng: &maps.LatLng{Lat: lat, Lng: lng},
		})
		return callErr
	})
	if err != nil {
		return "", err
	}
	if len(results) == 0 || results[0].FormattedAddress == "" {
		return "", ErrGeocodeNotFound
	}

	label := results[0].FormattedAddress
	c.cacheSet(ctx, key, Place{Lat: lat, Lng: lng, Label: label})
	return label, nil
}

// Route resolves driving distance, duration and polyline geometry between two
// points. When the provider offers alternatives the shortest one is chosen and
// its index recorded.
func (c *Client) Route(ctx context.Context, origin, destination Point) (*RouteInfo, error) {
	if math.Abs(origin.Lat-destination.Lat) < identicalEpsilon &&
		math.Abs(origin.Lng-destination.Lng) < identicalEpsilon {
		return nil, ErrIdenticalEndpoints
	}

	key := cacheKey("ROUTE", fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", origin.Lat, origin.Lng, destination.Lat, destination.Lng))
	var cached RouteInfo
	if c.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	var routes []maps.Route
	err := c.withRetry(ctx, "Route", func(ctx context.Context) error {
		var callErr error
		routes, _, callErr = c.api.Directions(ctx, &maps.DirectionsRequest{
			Origin:       fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
			Destination:  fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
			Mode:         maps.TravelModeDriving,
			Alternatives: true,
		})
		return callErr
	})
	if err != nil {
		if isZeroResults(err) {
			return nil, ErrRouteUnavailable
		}
		return nil, err
	}
	if len(routes) == 0 {
		return nil, ErrRouteUnavailable
	}

	best, bestIdx := summarizeRoutes(routes)
	if best.DistanceMeters == 0 || best.DurationSeconds == 0 {
		return nil, ErrRouteUnavailable
	}
	best.Alternative = bestIdx
	best.Geometry = decodeGeometry(routes[bestIdx])

	c.cacheSet(ctx, key, best)
	return &best, nil
}

// summarizeRoutes picks the shortest alternative by total leg distance.
func summarizeRoutes(routes []maps.Route) (RouteInfo, int) {
	bestIdx := 0
	var best RouteInfo
	for i, route := range routes {
		var dist, dur uint64
		for _, leg := range route.Legs {
			if leg.Distance.Meters > 0 {
				dist += uint64(leg.Distance.Meters)
			}
			dur += uint64(leg.Duration.Seconds())
		}
		if i == 0 || best.DistanceMeters == 0 || (dist > 0 && dist < best.DistanceMeters) {
			best = RouteInfo{DistanceMeters: dist, DurationSeconds: dur}
			bestIdx = i
		}
	}
	return best, bestIdx
}

// decodeGeometry converts the overview polyline into the stored JSON form.
// Geometry is optional: a missing or undecodable polyline yields nil.
func decodeGeometry(route maps.Route) json.RawMessage {
	if route.OverviewPolyline.Points == "" {
		return nil
	}
	latlngs, err := maps.DecodePolyline(route.OverviewPolyline.Points)
	if err != nil || len(latlngs) == 0 {
		return nil
	}
	points := make([]Point, len(latlngs))
	for i, ll := range latlngs {
		points[i] = Point{Lat: ll.Lat, Lng: ll.Lng}
	}
	return EncodeGeometry(points)
}

// withRetry runs fn with the per-call timeout, retrying transient provider
// failures with the fixed backoff schedule. Exhaustion surfaces as
// ErrProviderUnavailable.
func (c *Client) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= len(retryBackoff); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
			case <-time.After(retryBackoff[attempt-1]):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}

		lastErr = err
		c.log.Warn("geo-client", fmt.Sprintf("%s attempt %d failed: %v", op, attempt+1, err), "withRetry", "")
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

// isTransient classifies connection failures, timeouts and provider-side
// errors as retryable. Anything else fails fast.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"UNKNOWN_ERROR",
		"OVER_QUERY_LIMIT",
		"connection refused",
		"connection reset",
		"timeout",
		"EOF",
		"500",
		"502",
		"503",
		"504",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func isZeroResults(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ZERO_RESULTS")
}

func cacheKey(kind, payload string) string {
	sum := sha1.Sum([]byte(payload))
	return "GEO:" + kind + ":" + hex.EncodeToString(sum[:])
}

func (c *Client) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if c.cache == nil {
		return false
	}
	raw, err := c.cache.Get(ctx, key).Result()
	if err != nil || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

func (c *Client) cacheSet(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("geo-client", fmt.Sprintf("cache write failed: %v", err), "cacheSet", key)
	}
}
