// ABOUTME: Common storage errors
// ABOUTME: Enables consistent error handling across storage implementations

package storage

import (
	"errors"

	"github.com/harper/trail/internal/apperr"
	"github.com/harper/trail/internal/models"
)

// ErrNotFound is returned when a requested path does not exist.
var ErrNotFound = apperr.ErrNotFound

// ErrUnsupportedVersion is returned when persisted data was written by a newer schema.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

func notFound(id string) error {
	return &apperr.NotFoundError{ID: id}
}

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *apperr.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &apperr.PersistenceError{Op: op, Cause: err}
}

// checkSavable rejects values the store must never hold.
func checkSavable(p *models.Path) error {
	if p == nil {
		return &apperr.ValidationError{
			Shape: "Path", Direction: apperr.Inbound, From: "caller", To: "storage",
			Reason: "path is required",
		}
	}
	if p.ID == "" {
		return &apperr.ValidationError{
			Shape: "Path", Field: "id", Direction: apperr.Inbound, From: "caller", To: "storage",
			Reason: "is required",
		}
	}
	if !p.IsFinalized() {
		return &apperr.ValidationError{
			Shape: "Path", Field: "endTime", Direction: apperr.Inbound, From: "caller", To: "storage",
			Reason: "in-progress paths cannot be stored",
		}
	}
	return nil
}
