// ABOUTME: Bus topics and payloads published by the recording engine
// ABOUTME: Presentation and metrics subscribe to these to follow a session

package recording

import (
	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/models"
)

// Topics published during a recording session.
const (
	TopicStatusChange bus.Topic = "recording/status_change"
	TopicStarted      bus.Topic = "recording/started"
	TopicPointAdded   bus.Topic = "recording/point_added"
	TopicStatsUpdated bus.Topic = "recording/stats_updated"
	TopicCompleted    bus.Topic = "recording/completed"
	TopicCanceled     bus.Topic = "recording/canceled"
	TopicUpdated      bus.Topic = "recording/updated"
	// TopicError carries an error value, typically *apperr.PersistenceError.
	TopicError bus.Topic = "recording/error"
)

// StatusChange is published whenever recording starts or ends.
type StatusChange struct {
	IsRecording bool `json:"isRecording"`
}

// PointAdded is published for every ingested sample.
type PointAdded struct {
	Point  models.Sample `json:"point"`
	PathID string        `json:"pathId"`
}

type event struct {
	topic   bus.Topic
	payload any
}
