// Package geo wraps the external geocoding/routing provider and holds the
// spatial predicates used by ride search. Distances between endpoints are
// great-circle; the corridor check works in plain degree space on the stored
// route polyline.
package geo

import (
	"encoding/json"
	"math"
)

// EarthRadiusMeters is the mean earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// EndpointToleranceMeters is the search radius for matching a ride endpoint
// against a requested point.
const EndpointToleranceMeters = 3000.0

// CorridorBufferDegrees is the half-width of the buffer drawn around a route
// polyline for corridor matching.
const CorridorBufferDegrees = 0.01

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius reports whether two points lie within the given great-circle
// distance of each other.
func WithinRadius(a, b Point, meters float64) bool {
	return Haversine(a, b) <= meters
}

// EndpointsMatch is the straight endpoint predicate: the ride's pickup and
// destination each lie within the endpoint tolerance of the requested source
// and destination.
func EndpointsMatch(pickup, destination, source, dest Point) bool {
	return WithinRadius(pickup, source, EndpointToleranceMeters) &&
		WithinRadius(destination, dest, EndpointToleranceMeters)
}

// CorridorContains reports whether the point lies within bufferDeg of the
// polyline. Degree space is good enough at a 0.01 degree buffer; the polyline
// is treated as a chain of straight segments.
func CorridorContains(polyline []Point, p Point, bufferDeg float64) bool {
	if len(polyline) == 0 {
		return false
	}
	if len(polyline) == 1 {
		dLat := polyline[0].Lat - p.Lat
		dLng := polyline[0].Lng - p.Lng
		return math.Sqrt(dLat*dLat+dLng*dLng) <= bufferDeg
	}
	for i := 0; i < len(polyline)-1; i++ {
		if pointSegmentDistance(p, polyline[i], polyline[i+1]) <= bufferDeg {
			return true
		}
	}
	return false
}

// CorridorMatch is the corridor predicate: both requested points fall inside
// the buffered route polyline.
func CorridorMatch(polyline []Point, source, dest Point) bool {
	return CorridorContains(polyline, source, CorridorBufferDegrees) &&
		CorridorContains(polyline, dest, CorridorBufferDegrees)
}

// pointSegmentDistance returns the planar distance in degrees from p to the
// segment ab.
func pointSegmentDistance(p, a, b Point) float64 {
	abLat := b.Lat - a.Lat
	abLng := b.Lng - a.Lng
	apLat := p.Lat - a.Lat
	apLng := p.Lng - a.Lng

	lenSq := abLat*abLat + abLng*abLng
	t := 0.0
	if lenSq > 0 {
		t = (apLat*abLat + apLng*abLng) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	dLat := a.Lat + t*abLat - p.Lat
	dLng := a.Lng + t*abLng - p.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// ParseGeometry decodes stored route geometry. Every element must be an array
// with at least two numeric components (lat, lng); anything else makes the
// whole geometry invalid. Parsing the same malformed input always yields
// (nil, false), never a partially accepted polyline.
func ParseGeometry(raw []byte) ([]Point, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var pairs [][]float64
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, false
	}
	if len(pairs) == 0 {
		return nil, false
	}
	points := make([]Point, len(pairs))
	for i, pair := range pairs {
		if len(pair) < 2 {
			return nil, false
		}
		points[i] = Point{Lat: pair[0], Lng: pair[1]}
	}
	return points, true
}

// EncodeGeometry renders a polyline as the stored [[lat,lng],...] JSON form.
func EncodeGeometry(points []Point) []byte {
	if len(points) == 0 {
		return nil
	}
	pairs := make([][2]float64, len(points))
	for i, p := range points {
		pairs[i] = [2]float64{p.Lat, p.Lng}
	}
	raw, err := json.Marshal(pairs)
	if err != nil {
		return nil
	}
	return raw
}
