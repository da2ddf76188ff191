// Package geo provides great circle distance and coordinate helpers.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean earth radius used by Distance
const EarthRadiusKm = 6371.0088

// LatLng is a WGS84 coordinate pair in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid returns true if latitude is within -90..90 and longitude within -180..180
func (p LatLng) Valid() bool {
	return IsValidLatLng(p.Lat, p.Lng)
}

func (p LatLng) String() string {
	return FormatLocation(p)
}

// IsValidLatLng checks coordinate ranges, NaN values are never valid
func IsValidLatLng(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Distance calculates the great circle distance between p1 and p2 using the haversine formula.
// returns distance in KILOMETERS
func Distance(p1, p2 LatLng) float64 {
	lat1 := toRadians(p1.Lat)
	lat2 := toRadians(p2.Lat)
	diffLat := lat2 - lat1
	diffLng := toRadians(p2.Lng - p1.Lng)

	a := math.Sin(diffLat/2)*math.Sin(diffLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(diffLng/2)*math.Sin(diffLng/2)
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))
	return EarthRadiusKm * c
}

// FormatLocation renders a location for log output
func FormatLocation(p LatLng) string {
	return fmt.Sprintf("(%.6f,%.6f)", p.Lat, p.Lng)
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
