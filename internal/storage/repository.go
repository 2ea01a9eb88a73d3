// ABOUTME: Store interface for finalized path persistence
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"context"

	"github.com/harper/trail/internal/models"
)

// Store persists finalized paths keyed by id.
//
// GetAll returns paths in storage (insertion) order; callers sort if they need to.
// Save upserts by id and rejects paths that are still in progress.
// Delete and UpdateDetails fail with *apperr.NotFoundError for unknown ids.
type Store interface {
	GetAll(ctx context.Context) ([]*models.Path, error)
	GetByID(ctx context.Context, id string) (*models.Path, error)
	Save(ctx context.Context, path *models.Path) (*models.Path, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateDetails(ctx context.Context, id string, details models.Details) (*models.Path, error)
	Close() error
}
