// ABOUTME: Tests for great-circle distance helpers
// ABOUTME: Cross-checks the s2-backed distance against a direct haversine

package geo

import (
	"math"
	"testing"

	"github.com/harper/trail/internal/models"
	"github.com/stretchr/testify/assert"
)

// haversine is an independent implementation of the formula for cross-checking.
func haversine(a, b models.Sample) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	phi1, phi2 := toRad(a.Latitude), toRad(b.Latitude)
	dPhi := toRad(b.Latitude - a.Latitude)
	dLambda := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func TestDistance_OneDegreeAtEquator(t *testing.T) {
	d := Distance(models.Sample{Latitude: 0, Longitude: 0}, models.Sample{Latitude: 0, Longitude: 1})
	assert.InDelta(t, 111195, d, 1)
}

func TestDistance_SamePoint(t *testing.T) {
	p := models.Sample{Latitude: 41.8781, Longitude: -87.6298}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistance_MatchesHaversine(t *testing.T) {
	pairs := [][2]models.Sample{
		{{Latitude: 41.8781, Longitude: -87.6298}, {Latitude: 40.7128, Longitude: -74.0060}},
		{{Latitude: -6.2, Longitude: 106.816}, {Latitude: -6.9175, Longitude: 107.6191}},
		{{Latitude: 51.5, Longitude: -0.12}, {Latitude: 51.5001, Longitude: -0.1201}},
		{{Latitude: 89.9, Longitude: 0}, {Latitude: 89.9, Longitude: 180}},
	}
	for _, p := range pairs {
		want := haversine(p[0], p[1])
		assert.InEpsilon(t, want, Distance(p[0], p[1]), 1e-7)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := models.Sample{Latitude: 10, Longitude: 20}
	b := models.Sample{Latitude: -5, Longitude: 33}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-6)
}

func TestPathLength(t *testing.T) {
	points := []models.Sample{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 1, Longitude: 1},
	}
	want := haversine(points[0], points[1]) + haversine(points[1], points[2])
	assert.InDelta(t, want, PathLength(points), 1e-6)

	assert.Equal(t, 0.0, PathLength(nil))
	assert.Equal(t, 0.0, PathLength(points[:1]))
}

func TestBearing(t *testing.T) {
	origin := models.Sample{}
	assert.InDelta(t, 0, Bearing(origin, models.Sample{Latitude: 1}), 1e-9)
	assert.InDelta(t, 90, Bearing(origin, models.Sample{Longitude: 1}), 1e-9)
	assert.InDelta(t, 180, Bearing(origin, models.Sample{Latitude: -1}), 1e-9)
	assert.InDelta(t, 270, Bearing(origin, models.Sample{Longitude: -1}), 1e-9)
}
