// Package location provides geographic helpers for restaurant lookups
package location

import "math"

const earthRadiusMeters = 6371000

// NYC bounding box used to sanity-check query coordinates
const (
	minLat = 40.4
	maxLat = 41.0
	minLng = -74.3
	maxLng = -73.6
)

// Point is a latitude/longitude pair in degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p is a finite coordinate on the globe
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// InNYC reports whether p falls within the five boroughs' bounding box
func (p Point) InNYC() bool {
	return p.Lat >= minLat && p.Lat <= maxLat && p.Lng >= minLng && p.Lng <= maxLng
}

// DistanceTo returns the great-circle distance in meters from p to q
func (p Point) DistanceTo(q Point) float64 {
	return Haversine(p, q)
}

// Haversine calculates the distance in meters between two points
func Haversine(a, b Point) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// MetersToMiles converts meters to miles
func MetersToMiles(meters float64) float64 {
	return meters / 1609.344
}
