// ABOUTME: Recording session state machine
// ABOUTME: Ingests position samples, accumulates distance and finalizes paths

package recording

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/apperr"
	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/geo"
	"github.com/harper/trail/internal/logging"
	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/position"
)

// State is the session lifecycle state.
type State int

const (
	Idle State = iota
	Recording
	Finalizing
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Finalizing:
		return "finalizing"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the path id generator.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithSampleCheck rejects samples before they are ingested.
// Rejections are published on TopicError.
func WithSampleCheck(check func(models.Sample) error) Option {
	return func(e *Engine) { e.check = check }
}

// Engine owns at most one in-progress path.
//
// Thread Safety: one mutex guards the session state and accumulator. Events
// are published after it is released, so handlers may call back in.
type Engine struct {
	bus    *bus.Bus
	logger *log.Logger
	now    func() time.Time
	newID  func() string
	check  func(models.Sample) error

	mu          sync.Mutex
	state       State
	path        *models.Path
	startedAt   time.Time
	distance    float64
	last        *models.Sample
	unsubscribe bus.Unsubscribe
}

// New creates an idle engine that listens for samples on b while recording.
func New(b *bus.Bus, opts ...Option) *Engine {
	e := &Engine{
		bus:   b,
		now:   time.Now,
		newID: models.NewPathID,
		state: Idle,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrDefault(e.logger)
	return e
}

func (e *Engine) publish(events []event) {
	for _, ev := range events {
		e.bus.Publish(ev.topic, ev.payload)
	}
}

func (e *Engine) ignored(op string) {
	e.logger.Debug("recording operation ignored", "err", &apperr.StateError{Op: op, State: e.state.String()})
}

// Start begins a new session. It returns false without side effects when a
// session is already in progress.
func (e *Engine) Start() (*models.Path, bool) {
	p, events := e.start()
	e.publish(events)
	return p, p != nil
}

func (e *Engine) start() (*models.Path, []event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Idle {
		e.ignored("start")
		return nil, nil
	}

	e.startedAt = e.now()
	e.path = models.NewPath(e.newID(), e.startedAt)
	e.distance = 0
	e.last = nil
	e.unsubscribe = bus.On(e.bus, position.TopicChanged, e.Ingest)
	e.state = Recording
	e.logger.Info("recording started", "path", e.path.ID)

	snapshot := e.path.Clone()
	return snapshot, []event{
		{TopicStatusChange, StatusChange{IsRecording: true}},
		{TopicStarted, snapshot.Clone()},
	}
}

// Ingest appends a sample to the in-progress path. It is ignored when idle,
// so samples that race a stop or cancel are dropped.
func (e *Engine) Ingest(sample models.Sample) {
	e.publish(e.ingest(sample))
}

func (e *Engine) ingest(sample models.Sample) []event {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Recording {
		e.ignored("ingest")
		return nil
	}
	if e.check != nil {
		if err := e.check(sample); err != nil {
			e.logger.Warn("rejected sample", "path", e.path.ID, "err", err)
			return []event{{TopicError, err}}
		}
	}

	now := e.now()
	if sample.Timestamp == 0 {
		sample.Timestamp = now.UnixMilli()
	}
	if e.last != nil {
		e.distance += geo.Distance(*e.last, sample)
	}
	e.path.Points = append(e.path.Points, sample)
	e.last = &e.path.Points[len(e.path.Points)-1]
	e.path.TotalDistance = e.distance
	e.path.Duration = elapsed(e.startedAt, now)

	return []event{
		{TopicPointAdded, PointAdded{Point: sample, PathID: e.path.ID}},
		{TopicStatsUpdated, e.statsAt(now)},
	}
}

// Stop finalizes and returns the in-progress path, or nil when idle.
// The engine does not persist the path.
func (e *Engine) Stop() *models.Path {
	p, events := e.stop()
	e.publish(events)
	return p
}

func (e *Engine) stop() (*models.Path, []event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Recording {
		e.ignored("stop")
		return nil, nil
	}
	e.state = Finalizing

	end := e.now().UTC()
	p := e.path
	p.EndTime = &end
	p.TotalDistance = e.distance
	p.Duration = elapsed(e.startedAt, end)
	e.teardown()

	e.logger.Info("recording completed", "path", p.ID, "points", len(p.Points), "distance", p.TotalDistance)
	return p.Clone(), []event{
		{TopicStatusChange, StatusChange{IsRecording: false}},
		{TopicCompleted, p.Clone()},
	}
}

// Cancel discards the in-progress path and returns it, or nil when idle.
func (e *Engine) Cancel() *models.Path {
	p, events := e.cancel()
	e.publish(events)
	return p
}

func (e *Engine) cancel() (*models.Path, []event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Recording {
		e.ignored("cancel")
		return nil, nil
	}
	e.state = Cancelled

	p := e.path
	e.teardown()

	e.logger.Info("recording canceled", "path", p.ID, "points", len(p.Points))
	return p.Clone(), []event{
		{TopicStatusChange, StatusChange{IsRecording: false}},
		{TopicCanceled, p.Clone()},
	}
}

// teardown detaches from the position feed and returns to Idle. Caller holds mu.
func (e *Engine) teardown() {
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.unsubscribe = nil
	e.path = nil
	e.distance = 0
	e.last = nil
	e.startedAt = time.Time{}
	e.state = Idle
}

// UpdateDetails edits the in-progress path's name and description.
// Returns nil when idle.
func (e *Engine) UpdateDetails(details models.Details) *models.Path {
	p, events := e.updateDetails(details)
	e.publish(events)
	return p
}

func (e *Engine) updateDetails(details models.Details) (*models.Path, []event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Recording {
		e.ignored("update details")
		return nil, nil
	}
	e.path.ApplyDetails(details)
	return e.path.Clone(), []event{{TopicUpdated, e.path.Clone()}}
}

// CurrentStats returns live statistics, or nil when idle.
func (e *Engine) CurrentStats() *models.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Recording {
		return nil
	}
	s := e.statsAt(e.now())
	return &s
}

// Current returns a copy of the in-progress path, or nil when idle.
func (e *Engine) Current() *models.Path {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Recording {
		return nil
	}
	return e.path.Clone()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// IsRecording reports whether a session is in progress.
func (e *Engine) IsRecording() bool {
	return e.State() == Recording
}

func (e *Engine) statsAt(now time.Time) models.Stats {
	return models.Stats{
		PathID:     e.path.ID,
		Distance:   e.distance,
		Duration:   elapsed(e.startedAt, now),
		PointCount: len(e.path.Points),
	}
}

func elapsed(start, now time.Time) int64 {
	d := now.Sub(start).Milliseconds()
	if d < 0 {
		return 0
	}
	return d
}
