// ABOUTME: Position source that replays the samples of a stored path
// ABOUTME: Optionally paced by the original gaps between samples

package position

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/apperr"
	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/models"
)

// ReplaySource republishes a path's points in order. Replayed samples keep
// their coordinates but are restamped when ingested.
type ReplaySource struct {
	*tracker
	points []models.Sample
}

// Compile-time check that ReplaySource implements Source.
var _ Source = (*ReplaySource)(nil)

// NewReplaySource replays the points of p.
func NewReplaySource(b *bus.Bus, p *models.Path, logger *log.Logger) *ReplaySource {
	var points []models.Sample
	if p != nil {
		points = append(points, p.Points...)
	}
	return &ReplaySource{tracker: newTracker(b, logger), points: points}
}

// IsSupported reports whether there are points to replay.
func (r *ReplaySource) IsSupported() bool {
	return len(r.points) > 0
}

// RequestPermission grants access when there is something to replay.
func (r *ReplaySource) RequestPermission(_ context.Context) (bool, error) {
	if !r.IsSupported() {
		err := &apperr.PositionSourceError{Code: apperr.CodeNotSupported, Message: "path has no points"}
		r.fail(err)
		return false, err
	}
	r.bus.Publish(TopicPermissionChange, PermissionChange{Granted: true})
	return true, nil
}

// StartTracking starts the replay in the background.
func (r *ReplaySource) StartTracking(ctx context.Context, opts Options) error {
	if !r.IsSupported() {
		return &apperr.PositionSourceError{Code: apperr.CodeNotSupported, Message: "path has no points"}
	}
	r.start(ctx, opts, func(ctx context.Context) { r.replay(ctx, opts.Speed) })
	return nil
}

// StopTracking halts the replay.
func (r *ReplaySource) StopTracking() {
	r.stop()
}

// CurrentPosition returns the most recently replayed sample.
func (r *ReplaySource) CurrentPosition(ctx context.Context) (models.Sample, error) {
	return r.current(ctx)
}

// Done is closed when the replay finishes or is stopped.
func (r *ReplaySource) Done() <-chan struct{} {
	return r.wait()
}

func (r *ReplaySource) replay(ctx context.Context, speed float64) {
	for i, p := range r.points {
		if i > 0 && speed > 0 {
			if !sleep(ctx, gap(r.points[i-1], p, speed)) {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		s := p
		s.Timestamp = 0
		r.emit(s)
	}
}

// gap is the scaled time between two recorded samples. Missing or
// out-of-order timestamps give no pause.
func gap(prev, next models.Sample, speed float64) time.Duration {
	if prev.Timestamp == 0 || next.Timestamp <= prev.Timestamp {
		return 0
	}
	ms := float64(next.Timestamp-prev.Timestamp) / speed
	return time.Duration(ms * float64(time.Millisecond))
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
