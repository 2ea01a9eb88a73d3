// ABOUTME: Export and import functionality for recorded paths
// ABOUTME: Supports a portable YAML backup format

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/schema"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// backupTool identifies backups written by this program.
const backupTool = "trail"

// Backup represents the YAML backup format.
type Backup struct {
	Version       string       `yaml:"version"`
	SchemaVersion int          `yaml:"schema_version"`
	ExportedAt    time.Time    `yaml:"exported_at"`
	Tool          string       `yaml:"tool"`
	Paths         []PathBackup `yaml:"paths"`
}

// PathBackup represents a path in the backup format.
type PathBackup struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description,omitempty"`
	StartTime     time.Time      `yaml:"start_time"`
	EndTime       time.Time      `yaml:"end_time"`
	TotalDistance float64        `yaml:"total_distance"`
	DurationMs    int64          `yaml:"duration_ms"`
	Points        []SampleBackup `yaml:"points"`
}

// SampleBackup represents a single sample in the backup format.
type SampleBackup struct {
	Latitude  float64  `yaml:"lat"`
	Longitude float64  `yaml:"lng"`
	Altitude  *float64 `yaml:"alt,omitempty"`
	Accuracy  *float64 `yaml:"accuracy,omitempty"`
	Heading   *float64 `yaml:"heading,omitempty"`
	Speed     *float64 `yaml:"speed,omitempty"`
	Timestamp int64    `yaml:"ts,omitempty"`
}

// ExportBackup serializes every stored path to YAML.
func ExportBackup(ctx context.Context, s Store) ([]byte, error) {
	paths, err := s.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}

	backup := Backup{
		Version:       BackupVersion,
		SchemaVersion: models.SchemaVersion,
		ExportedAt:    time.Now().UTC(),
		Tool:          backupTool,
		Paths:         make([]PathBackup, 0, len(paths)),
	}
	for _, p := range paths {
		backup.Paths = append(backup.Paths, toBackup(p))
	}

	return yaml.Marshal(backup)
}

// ParseBackup decodes and checks a YAML backup.
func ParseBackup(data []byte) (*Backup, error) {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}
	if backup.Tool != backupTool {
		return nil, fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, backupTool)
	}
	if backup.SchemaVersion > models.SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, backup.SchemaVersion)
	}
	return &backup, nil
}

// ImportBackup restores paths from a YAML backup, upserting by id.
// Every path is validated before any is written; one bad record rejects the
// whole backup. Returns the number of paths written.
func ImportBackup(ctx context.Context, s Store, data []byte) (int, error) {
	backup, err := ParseBackup(data)
	if err != nil {
		return 0, err
	}

	v := schema.New()
	paths := make([]*models.Path, len(backup.Paths))
	for i, pb := range backup.Paths {
		p := fromBackup(pb)
		if err := checkSavable(p); err != nil {
			return 0, fmt.Errorf("path %d (%s): %w", i, pb.ID, err)
		}
		if err := v.Check(p, schema.ShapePath, schema.In("backup", "storage")); err != nil {
			return 0, fmt.Errorf("path %d (%s): %w", i, pb.ID, err)
		}
		paths[i] = p
	}

	count := 0
	for _, p := range paths {
		if _, err := s.Save(ctx, p); err != nil {
			return count, fmt.Errorf("save path %s: %w", p.ID, err)
		}
		count++
	}
	return count, nil
}

func toBackup(p *models.Path) PathBackup {
	pb := PathBackup{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		StartTime:     p.StartTime,
		TotalDistance: p.TotalDistance,
		DurationMs:    p.Duration,
		Points:        make([]SampleBackup, len(p.Points)),
	}
	if p.EndTime != nil {
		pb.EndTime = *p.EndTime
	}
	for i, s := range p.Points {
		pb.Points[i] = SampleBackup{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Altitude:  s.Altitude,
			Accuracy:  s.Accuracy,
			Heading:   s.Heading,
			Speed:     s.Speed,
			Timestamp: s.Timestamp,
		}
	}
	return pb
}

func fromBackup(pb PathBackup) *models.Path {
	p := &models.Path{
		ID:            pb.ID,
		Name:          pb.Name,
		Description:   pb.Description,
		StartTime:     pb.StartTime.UTC(),
		TotalDistance: pb.TotalDistance,
		Duration:      pb.DurationMs,
		Points:        make([]models.Sample, len(pb.Points)),
	}
	if !pb.EndTime.IsZero() {
		end := pb.EndTime.UTC()
		p.EndTime = &end
	}
	for i, s := range pb.Points {
		p.Points[i] = models.Sample{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Altitude:  s.Altitude,
			Accuracy:  s.Accuracy,
			Heading:   s.Heading,
			Speed:     s.Speed,
			Timestamp: s.Timestamp,
		}
	}
	return p
}
