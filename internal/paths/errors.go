// ABOUTME: Error helpers for the path service
// ABOUTME: Normalizes store failures into persistence errors

package paths

import (
	"github.com/harper/trail/internal/apperr"
)

// persistenceErr wraps err as a *apperr.PersistenceError unless it already is one.
func persistenceErr(op string, err error) error {
	if _, ok := apperr.AsPersistence(err); ok {
		return err
	}
	return &apperr.PersistenceError{Op: op, Cause: err}
}
