// ABOUTME: Tests for the error taxonomy
// ABOUTME: Verifies matching, unwrapping and messages

package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("delete: %w", &NotFoundError{ID: "abc"})

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestPersistenceError_Unwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("save: %w", &PersistenceError{Op: "save", Cause: cause})

	pe, ok := AsPersistence(err)
	require.True(t, ok)
	assert.Equal(t, "save", pe.Op)
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsNotFound(err))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{
		Shape:     "Sample",
		Field:     "latitude",
		Direction: Inbound,
		From:      "presentation",
		To:        "paths",
		Reason:    "must be between -90 and 90",
	}
	msg := err.Error()
	assert.Contains(t, msg, "inbound")
	assert.Contains(t, msg, "latitude")
	assert.Contains(t, msg, "presentation -> paths")
}

func TestPositionSourceError_Message(t *testing.T) {
	err := &PositionSourceError{Code: CodeTimeout, Message: "no fix within 5s"}
	assert.Equal(t, "position source timeout: no fix within 5s", err.Error())

	wrapped := &PositionSourceError{Code: CodeStartFailed, Message: "open", Cause: errors.New("boom")}
	assert.True(t, errors.Is(wrapped, wrapped.Cause))
}
