// ABOUTME: Path management topics and typed subscription helpers
// ABOUTME: Mirrors every recording and path event for presentation code

package paths

import (
	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/recording"
)

// Topics published by the service for stored paths.
const (
	TopicPathDeleted bus.Topic = "path/deleted"
	TopicPathUpdated bus.Topic = "path/updated"
	TopicPathSaved   bus.Topic = "path/saved"
)

// PathDeleted is published once per successful delete.
type PathDeleted struct {
	ID string `json:"id"`
}

// OnRecordingStarted receives the new path when a session begins.
func (s *Service) OnRecordingStarted(fn func(*models.Path)) bus.Unsubscribe {
	return bus.On(s.bus, recording.TopicStarted, fn)
}

// OnRecordingCompleted receives the finalized path when a session stops.
func (s *Service) OnRecordingCompleted(fn func(*models.Path)) bus.Unsubscribe {
	return bus.On(s.bus, recording.TopicCompleted, fn)
}

// OnRecordingCanceled receives the discarded path when a session is canceled.
func (s *Service) OnRecordingCanceled(fn func(*models.Path)) bus.Unsubscribe {
	return bus.On(s.bus, recording.TopicCanceled, fn)
}

// OnRecordingUpdated receives the in-progress path after its details change.
func (s *Service) OnRecordingUpdated(fn func(*models.Path)) bus.Unsubscribe {
	return bus.On(s.bus, recording.TopicUpdated, fn)
}

// OnRecordingPointAdded receives each accepted sample.
func (s *Service) OnRecordingPointAdded(fn func(recording.PointAdded)) bus.Unsubscribe {
	return bus.On(s.bus, recording.TopicPointAdded, fn)
}

// OnRecordingStatusChange receives start and stop transitions.
func (s *Service) OnRecordingStatusChange(fn func(recording.StatusChange)) bus.Unsubscribe {
	return bus.On(s.bus, recording.TopicStatusChange, fn)
}

// OnRecordingStatsUpdated receives live stats after each accepted sample.
func (s *Service) OnRecordingStatsUpdated(fn func(models.Stats)) bus.Unsubscribe {
	return bus.On(s.bus, recording.TopicStatsUpdated, fn)
}

// OnRecordingError receives persistence failures and rejected samples.
func (s *Service) OnRecordingError(fn func(error)) bus.Unsubscribe {
	return bus.On(s.bus, recording.TopicError, fn)
}

// OnPathDeleted receives the id of each deleted path.
func (s *Service) OnPathDeleted(fn func(PathDeleted)) bus.Unsubscribe {
	return bus.On(s.bus, TopicPathDeleted, fn)
}

// OnPathUpdated receives stored paths after their details change.
func (s *Service) OnPathUpdated(fn func(*models.Path)) bus.Unsubscribe {
	return bus.On(s.bus, TopicPathUpdated, fn)
}

// OnPathSaved receives each path written to the store.
func (s *Service) OnPathSaved(fn func(*models.Path)) bus.Unsubscribe {
	return bus.On(s.bus, TopicPathSaved, fn)
}
