// ABOUTME: GeoJSON generation utilities
// ABOUTME: Converts recorded paths to FeatureCollections for map renderers

package geojson

import (
	"encoding/json"
	"time"

	"github.com/harper/trail/internal/models"
)

// FeatureCollection represents a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry represents a GeoJSON Geometry.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// PointCoordinates represents [longitude, latitude] for a Point.
type PointCoordinates [2]float64

// LineCoordinates represents [[lng, lat], [lng, lat], ...] for a LineString.
type LineCoordinates []PointCoordinates

// Feature roles in the "role" property.
const (
	RoleTrack = "track"
	RoleStart = "start"
	RoleEnd   = "end"
)

// FromPath converts a path to a LineString of its points (when it has at
// least two) plus start and end markers.
func FromPath(p *models.Path) *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: pathFeatures(p),
	}
}

// FromPaths converts many paths into one collection.
func FromPaths(paths []*models.Path) *FeatureCollection {
	features := make([]Feature, 0, len(paths)*3)
	for _, p := range paths {
		features = append(features, pathFeatures(p)...)
	}
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

func pathFeatures(p *models.Path) []Feature {
	if p == nil || len(p.Points) == 0 {
		return []Feature{}
	}

	features := make([]Feature, 0, 3)
	if len(p.Points) >= 2 {
		coords := make(LineCoordinates, len(p.Points))
		for i, s := range p.Points {
			coords[i] = point(s)
		}
		props := pathProperties(p)
		props["role"] = RoleTrack
		props["point_count"] = len(p.Points)
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: coords,
			},
			Properties: props,
		})
	}

	features = append(features, marker(p, p.Points[0], RoleStart))
	if len(p.Points) >= 2 {
		features = append(features, marker(p, p.Points[len(p.Points)-1], RoleEnd))
	}
	return features
}

func pathProperties(p *models.Path) map[string]interface{} {
	props := map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"distance":    p.TotalDistance,
		"duration":    p.Duration,
		"start_time":  p.StartTime.Format(time.RFC3339),
	}
	if p.EndTime != nil {
		props["end_time"] = p.EndTime.Format(time.RFC3339)
	}
	return props
}

func marker(p *models.Path, s models.Sample, role string) Feature {
	props := map[string]interface{}{
		"id":   p.ID,
		"name": p.Name,
		"role": role,
	}
	if s.Timestamp != 0 {
		props["recorded_at"] = s.Time().Format(time.RFC3339)
	}
	if s.Altitude != nil {
		props["altitude"] = *s.Altitude
	}
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: point(s),
		},
		Properties: props,
	}
}

func point(s models.Sample) PointCoordinates {
	return PointCoordinates{s.Longitude, s.Latitude}
}

// ToJSON serializes the FeatureCollection to JSON.
func (fc *FeatureCollection) ToJSON() ([]byte, error) {
	return json.Marshal(fc)
}

// ToJSONIndent serializes the FeatureCollection to indented JSON.
func (fc *FeatureCollection) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}
