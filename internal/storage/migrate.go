// ABOUTME: Data migration between path storage backends
// ABOUTME: Copies paths from source to destination store in storage order

package storage

import (
	"context"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Paths  int
	Points int
}

// MigrateData copies all paths from src to dst, preserving their order.
// Existing paths in dst with the same id are replaced.
func MigrateData(ctx context.Context, src, dst Store) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	paths, err := src.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source paths: %w", err)
	}

	for _, p := range paths {
		if _, err := dst.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("save path %q: %w", p.Name, err)
		}
		summary.Paths++
		summary.Points += len(p.Points)
	}

	return summary, nil
}
