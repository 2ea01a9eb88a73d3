// ABOUTME: Core data models for recorded paths and position samples
// ABOUTME: Provides constructors, validators and copy helpers for paths

package models

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// SchemaVersion is the version of the persisted Path record layout.
const SchemaVersion = 1

// MaxNameLength is the longest path name, in characters.
const MaxNameLength = 255

// ValidateCoordinates checks if latitude and longitude are within valid ranges.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return fmt.Errorf("coordinates cannot be NaN")
	}
	if math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates cannot be infinite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateName checks if a name is valid (non-empty, within length limits).
// Note: This validates the raw input - callers should trim whitespace themselves if needed.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty or whitespace")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	}
	return nil
}

// Sample is a single geodetic fix. Samples are never modified after creation.
type Sample struct {
	Latitude  float64  `json:"latitude" validate:"finite,gte=-90,lte=90"`
	Longitude float64  `json:"longitude" validate:"finite,gte=-180,lte=180"`
	Altitude  *float64 `json:"altitude" validate:"omitempty,finite"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,finite,gte=0"`
	Heading   *float64 `json:"heading,omitempty" validate:"omitempty,finite"`
	Speed     *float64 `json:"speed,omitempty" validate:"omitempty,finite"`
	// Timestamp is epoch milliseconds. Zero means "not provided".
	Timestamp int64 `json:"timestamp,omitempty" validate:"gte=0"`
}

// Path is a named, timestamped recording of samples.
type Path struct {
	ID            string     `json:"id" validate:"required,max=128"`
	Name          string     `json:"name" validate:"max=255"`
	Description   string     `json:"description" validate:"max=4096"`
	StartTime     time.Time  `json:"startTime" validate:"required"`
	EndTime       *time.Time `json:"endTime"`
	Points        []Sample   `json:"points" validate:"dive"`
	TotalDistance float64    `json:"totalDistance" validate:"finite,gte=0"`
	// Duration is milliseconds elapsed since StartTime.
	Duration int64 `json:"duration" validate:"gte=0"`
}

// Details carries optional name/description edits. A nil field is left unchanged;
// a pointer to "" overwrites with the empty string.
type Details struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4096"`
}

// Stats is a live snapshot of an in-progress recording.
type Stats struct {
	PathID     string  `json:"pathId" validate:"required"`
	Distance   float64 `json:"distance" validate:"finite,gte=0"`
	Duration   int64   `json:"duration" validate:"gte=0"`
	PointCount int     `json:"pointCount" validate:"gte=0"`
}

// NewPathID returns a fresh unique path identifier.
func NewPathID() string {
	return uuid.NewString()
}

// DefaultName derives a human label from the recording start time.
func DefaultName(t time.Time) string {
	return "Path " + t.Local().Format("1/2/2006, 3:04:05 PM")
}

// NewPath creates an in-progress path with an empty point list.
func NewPath(id string, startTime time.Time) *Path {
	return &Path{
		ID:          id,
		Name:        DefaultName(startTime),
		Description: "",
		StartTime:   startTime.UTC(),
		Points:      []Sample{},
	}
}

// NewSample creates a sample with the given coordinates and timestamp.
func NewSample(lat, lng float64, at time.Time) Sample {
	return Sample{
		Latitude:  lat,
		Longitude: lng,
		Timestamp: at.UnixMilli(),
	}
}

// Float returns a pointer to v, for optional sample fields.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s, for optional detail fields.
func String(s string) *string {
	return &s
}

// Time returns the sample timestamp as a time.Time.
func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp).UTC()
}

// IsFinalized reports whether the path has an end time.
func (p *Path) IsFinalized() bool {
	return p.EndTime != nil
}

// Clone returns a deep copy of the path. Samples are immutable so the point
// slice is copied but the optional fields are shared.
func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Points = make([]Sample, len(p.Points))
	copy(cp.Points, p.Points)
	if p.EndTime != nil {
		end := *p.EndTime
		cp.EndTime = &end
	}
	return &cp
}

// ApplyDetails overwrites only the provided fields.
func (p *Path) ApplyDetails(d Details) {
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.Description != nil {
		p.Description = *d.Description
	}
}

// Empty reports whether no field is provided.
func (d Details) Empty() bool {
	return d.Name == nil && d.Description == nil
}
