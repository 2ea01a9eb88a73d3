// ABOUTME: Unit tests for data models
// ABOUTME: Tests constructors, validators, and model methods

package models

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestNewPath(t *testing.T) {
	start := time.Date(2024, 12, 14, 15, 0, 0, 0, time.UTC)
	p := NewPath("abc", start)

	if p.ID != "abc" {
		t.Errorf("expected id 'abc', got %q", p.ID)
	}
	if !strings.HasPrefix(p.Name, "Path ") {
		t.Errorf("expected default name prefix, got %q", p.Name)
	}
	if p.Description != "" {
		t.Errorf("expected empty description, got %q", p.Description)
	}
	if p.EndTime != nil {
		t.Error("expected nil EndTime for a new path")
	}
	if p.Points == nil || len(p.Points) != 0 {
		t.Error("expected empty, non-nil points")
	}
	if !p.StartTime.Equal(start) {
		t.Errorf("expected start %v, got %v", start, p.StartTime)
	}
}

func TestNewPathID_Unique(t *testing.T) {
	if NewPathID() == NewPathID() {
		t.Error("expected unique IDs")
	}
}

func TestClone_IsDeep(t *testing.T) {
	end := time.Now().UTC()
	p := NewPath("abc", time.Now())
	p.Points = append(p.Points, Sample{Latitude: 1, Longitude: 2})
	p.EndTime = &end

	cp := p.Clone()
	cp.Points[0].Latitude = 50
	cp.Points = append(cp.Points, Sample{})
	*cp.EndTime = end.Add(time.Hour)

	if p.Points[0].Latitude != 1 {
		t.Error("clone shares point storage with original")
	}
	if len(p.Points) != 1 {
		t.Error("append on clone changed original length")
	}
	if !p.EndTime.Equal(end) {
		t.Error("clone shares EndTime with original")
	}
}

func TestClone_Nil(t *testing.T) {
	var p *Path
	if p.Clone() != nil {
		t.Error("expected nil clone of nil path")
	}
}

func TestApplyDetails(t *testing.T) {
	tests := []struct {
		name     string
		details  Details
		wantName string
		wantDesc string
	}{
		{"name only", Details{Name: String("X")}, "X", "desc"},
		{"description only", Details{Description: String("new")}, "orig", "new"},
		{"empty string overwrites", Details{Description: String("")}, "orig", ""},
		{"nothing provided", Details{}, "orig", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Path{Name: "orig", Description: "desc"}
			p.ApplyDetails(tt.details)
			if p.Name != tt.wantName {
				t.Errorf("name: expected %q, got %q", tt.wantName, p.Name)
			}
			if p.Description != tt.wantDesc {
				t.Errorf("description: expected %q, got %q", tt.wantDesc, p.Description)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid", 41.8781, -87.6298, false},
		{"edges", 90, -180, false},
		{"lat too high", 91, 0, true},
		{"lng too low", 0, -181, true},
		{"nan", math.NaN(), 0, true},
		{"inf", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lng)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("  "); err == nil {
		t.Error("expected error for whitespace name")
	}
	if err := ValidateName(strings.Repeat("a", 256)); err == nil {
		t.Error("expected error for long name")
	}
	if err := ValidateName(strings.Repeat("é", MaxNameLength)); err != nil {
		t.Errorf("expected %d multi-byte characters to be accepted: %v", MaxNameLength, err)
	}
	if err := ValidateName("morning walk"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSampleTime(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSample(1, 2, at)
	if !s.Time().Equal(at) {
		t.Errorf("expected %v, got %v", at, s.Time())
	}
}

func TestDetailsEmpty(t *testing.T) {
	if !(Details{}).Empty() {
		t.Error("expected zero Details to be empty")
	}
	if (Details{Name: String("")}).Empty() {
		t.Error("expected Details with empty-string name to be non-empty")
	}
}
