// ABOUTME: Position source contract and the bus topics sources publish on
// ABOUTME: Sources push samples onto the bus; the recording engine consumes them

package position

import (
	"context"
	"time"

	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/models"
)

// Topics published by position sources.
const (
	TopicChanged              bus.Topic = "position/changed"
	TopicError                bus.Topic = "position/error"
	TopicPermissionChange     bus.Topic = "position/permission_change"
	TopicTrackingStatusChange bus.Topic = "position/tracking_status_change"
)

// PermissionChange is published when permission is granted or refused.
type PermissionChange struct {
	Granted bool `json:"granted"`
}

// TrackingStatusChange is published when tracking starts or stops.
type TrackingStatusChange struct {
	IsTracking bool `json:"isTracking"`
}

// Options control tracking.
type Options struct {
	HighAccuracy bool
	// Timeout bounds CurrentPosition.
	Timeout time.Duration
	// Speed divides the gaps between replayed samples. 0 replays without pauses.
	Speed float64
}

// DefaultOptions returns high accuracy with a five second timeout.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      5 * time.Second,
	}
}

// Source supplies geodetic samples. Continuous updates are published on
// TopicChanged; failures on TopicError as *apperr.PositionSourceError.
type Source interface {
	IsSupported() bool
	RequestPermission(ctx context.Context) (bool, error)
	// StartTracking and StopTracking are idempotent.
	StartTracking(ctx context.Context, opts Options) error
	StopTracking()
	CurrentPosition(ctx context.Context) (models.Sample, error)
}
