// ABOUTME: Great-circle distance and bearing between position samples
// ABOUTME: Spherical Earth model; altitude and ellipsoid flattening are ignored

package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/harper/trail/internal/models"
)

// EarthRadiusMeters is the mean Earth radius used for all distances.
const EarthRadiusMeters = 6371000.0

// Distance returns the haversine great-circle distance in meters between two samples.
func Distance(a, b models.Sample) float64 {
	return HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// HaversineDistance calculates the great-circle distance between two points in meters.
// s2's LatLng.Distance computes the central angle with the haversine formula.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// PathLength sums the distance between consecutive samples in order.
func PathLength(points []models.Sample) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// Bearing returns the initial bearing from a to b in degrees (0-360, 0 is north).
func Bearing(a, b models.Sample) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	lonDiff := (b.Longitude - a.Longitude) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lonDiff)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}
